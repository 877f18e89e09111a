package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacquerai/casegen/internal/profile"
)

func TestSchemaCommand(t *testing.T) {
	res, err := executeCommand(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &schema))
	assert.Equal(t, profile.SchemaID, schema["$id"])
	assert.Contains(t, schema, "properties")
}

func TestVersionCommand(t *testing.T) {
	res, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", res.stdout)
}

func TestVersionCommandJSON(t *testing.T) {
	res, err := executeCommand(t, "version", "--output", "json")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, currentVersion(), info)
}

func TestVersionCommandYAML(t *testing.T) {
	res, err := executeCommand(t, "version", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "version: "+Version)
	assert.Contains(t, res.stdout, "go_version: ")
}

func TestBuildVariables(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Commit)
	assert.NotEmpty(t, Date)
	assert.Contains(t, GoVersion, "go")
}

func TestInitCommand_SmallTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles", "demo.yaml")

	res, err := executeCommand(t, "init", "--template", "small", path)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(data))

	p, err := profile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", p.Name)
	assert.Equal(t, 100, p.TotalCount())
}

func TestInitCommand_DefaultTemplateRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	_, err := executeCommand(t, "init", path)
	require.NoError(t, err)

	p, err := profile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, profile.Default(), p)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "profile.yaml", "keep me")

	_, err := executeCommand(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	_, err = executeCommand(t, "init", "--force", path)
	require.NoError(t, err)
}

func TestInitCommand_UnknownTemplate(t *testing.T) {
	_, err := executeCommand(t, "init", "--template", "huge", filepath.Join(t.TempDir(), "p.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: default, small")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", smallProfileYAML)
	bad := writeFile(t, dir, "bad.yaml", "regions:\n  - value: NCR\n    weight: -1\n")

	res, err := executeCommand(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "All 1 profile(s) are valid")

	res, err = executeCommand(t, "validate", good, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Contains(t, res.stdout, "bad.yaml")
	assert.Contains(t, res.stdout, "regions")
	assert.Contains(t, res.stdout, "1 of 2 profile(s) failed validation")
}

func TestValidateCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", smallProfileYAML)
	writeFile(t, dir, "broken.yml", "years: [")
	writeFile(t, dir, "notes.txt", "ignored")

	res, err := executeCommand(t, "validate", "--recursive", dir, "--output", "json")
	require.Error(t, err)

	var summary ValidationSummary
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)

	for _, r := range summary.Results {
		if filepath.Base(r.File) == "good.yaml" {
			assert.True(t, r.Valid)
			assert.Equal(t, 10, r.Rows)
		} else {
			assert.False(t, r.Valid)
			require.NotEmpty(t, r.Errors)
		}
	}
}

func TestValidateCommand_DirectoryNeedsRecursive(t *testing.T) {
	_, err := executeCommand(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--recursive")
}
