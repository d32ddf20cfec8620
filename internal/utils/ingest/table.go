package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat marks files the tabular reader cannot handle.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

// ReadTable reads a CSV or Excel file into rows keyed by normalized header
// names (trimmed, lowercased, spaces as underscores). The first row is the
// header; rows shorter than the header are padded with empty strings.
func ReadTable(filename string, data []byte) ([]map[string]string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return readCSV(data)
	case "xlsx", "xls":
		return readExcel(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readCSV(data []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rowsFromRecords(records), nil
}

func readExcel(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rowsFromRecords(records), nil
}

func rowsFromRecords(records [][]string) []map[string]string {
	if len(records) < 2 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			val := ""
			if i < len(record) {
				val = strings.TrimSpace(record[i])
			}
			row[header] = val
			if val != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}
