package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/lacquerai/casegen/internal/synth"
)

// ErrHeaderMismatch is returned when a file's header differs from synth.Header.
var ErrHeaderMismatch = errors.New("unexpected dataset header")

// Row is one CSV line keyed by column name.
type Row map[string]string

// Table is a decoded CSV file with its column order preserved.
type Table struct {
	Headers []string
	Rows    []Row
}

// Decode parses CSV with a header row. Rows shorter than the header leave
// the missing columns empty.
func Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{Headers: headers}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadFile decodes the CSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Records converts the table back into case records. The header must match
// synth.Header exactly.
func (t *Table) Records() ([]synth.CaseRecord, error) {
	if !slices.Equal(t.Headers, synth.Header) {
		return nil, fmt.Errorf("%w: %v", ErrHeaderMismatch, t.Headers)
	}

	records := make([]synth.CaseRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		id, err := strconv.Atoi(row["Case_ID"])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid Case_ID %q", i+1, row["Case_ID"])
		}
		records = append(records, synth.CaseRecord{
			CaseID:             id,
			DiagnosisDate:      row["Diagnosis_Date"],
			Region:             row["Region"],
			Sex:                row["Sex"],
			AgeGroup:           row["Age_Group"],
			ModeOfTransmission: row["Mode_of_Transmission"],
			RiskCategory:       row["Risk_Category"],
		})
	}
	return records, nil
}

// ReadRecords reads the dataset file at path as case records.
func ReadRecords(path string) ([]synth.CaseRecord, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return t.Records()
}
