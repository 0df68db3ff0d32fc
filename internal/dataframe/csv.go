package dataframe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FromCSV parses CSV data into a Frame. The first record is the header.
// Cell values that parse as numbers become float64, everything else stays
// a trimmed string. Malformed rows are skipped.
func FromCSV(name string, r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	columns := make([]string, len(headers))
	for i, h := range headers {
		columns[i] = strings.TrimSpace(h)
	}

	var rows [][]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) != len(columns) {
			continue
		}
		row := make([]any, len(record))
		for i, raw := range record {
			val := strings.TrimSpace(raw)
			if f, err := strconv.ParseFloat(val, 64); err == nil && val != "" {
				row[i] = f
			} else {
				row[i] = val
			}
		}
		rows = append(rows, row)
	}

	return New(name, columns, rows)
}

// LoadCSVFile reads a CSV file into a Frame named after the file.
func LoadCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromCSV(name, f)
}
