// Package profile defines the immutable configuration that drives dataset
// generation: the categorical tables, the per-year counts and the age
// distribution. Profiles are loaded from YAML, validated as a whole and
// described by a JSON Schema.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a YAML profile from path. An empty path returns
// the built-in default profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML profile over the default profile, so keys that are
// absent keep their default values, and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	p.Name = ""

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parsing error: %w", err)
	}

	if p.Name == "" {
		p.Name = "custom"
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Marshal renders the profile as YAML.
func Marshal(p *Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
