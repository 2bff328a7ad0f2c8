package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVFile reads the row set from a local CSV file. The first record is the
// header; data rows shorter than the header pad with "".
type CSVFile struct {
	Path string
}

func (s CSVFile) Name() string { return "csv:" + s.Path }

func (s CSVFile) Fetch(_ context.Context) ([]RawRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV decodes header-keyed rows from CSV data. Ragged rows are
// tolerated; required-column validation happens here, at the boundary.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	headers := records[0]
	if err := validateHeaders(headers); err != nil {
		return nil, err
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(RawRow, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
