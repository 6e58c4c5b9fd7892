package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"lanyard/errs"
)

// RowParser is the spreadsheet/CSV collaborator seam: it turns a raw
// buffer into header-keyed row maps. Alternative formats (xls exports
// converted upstream, vendor registration dumps) plug in here.
type RowParser interface {
	Parse(buf []byte, format string) ([]map[string]string, error)
}

// CSVParser reads comma-separated buffers with a header row.
type CSVParser struct{}

func (CSVParser) Parse(buf []byte, format string) ([]map[string]string, error) {
	if !strings.EqualFold(format, "csv") {
		return nil, &errs.UnsupportedFormatError{Format: format}
	}

	reader := csv.NewReader(bytes.NewReader(buf))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // partial rows are handled per row, not fatally

	header, err := reader.Read()
	if err != nil {
		return nil, errs.Validation("file", "unreadable or empty CSV")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// encoding noise in one line should not kill the batch;
			// surface it as an empty row the validator will reject
			rows = append(rows, map[string]string{})
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
