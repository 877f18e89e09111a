// Package dataset reads and writes case datasets as CSV files and
// aggregates them into summaries.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lacquerai/casegen/internal/synth"
)

// ContentType is the media type of a dataset file.
const ContentType = "text/csv; charset=utf-8"

// Encode writes the header followed by one line per record.
func Encode(w io.Writer, records []synth.CaseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(synth.Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Fields()); err != nil {
			return fmt.Errorf("case %d: %w", rec.CaseID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile replaces path with the encoded records. The data is written to a
// temporary file in the same directory and renamed over path once it has
// been synced, so a reader sees either the previous file or the complete new
// one. Missing parent directories are created.
func WriteFile(path string, records []synth.CaseRecord) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = Encode(bw, records); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync dataset: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set dataset permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dataset: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return nil
}
