package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

// CSVParser parses CSV and tab-separated scorecard files
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse parses CSV data and returns a ParsedScorecard. Workbooks uploaded with a .csv
// name are handed to the XLSX reader.
func (p *CSVParser) Parse(data []byte) (*ParsedScorecard, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return NewXLSXParser().Parse(data)
	}

	cleaned, delimiter, err := preprocessCSVData(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	return parseRows(records)
}

// preprocessCSVData strips a UTF-8 BOM, normalizes line endings and picks the delimiter
func preprocessCSVData(data []byte) (string, rune, error) {
	if len(data) == 0 {
		return "", ',', fmt.Errorf("empty CSV data")
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	// count commas vs tabs in the first few lines
	lines := strings.SplitN(cleaned, "\n", 6)
	commas, tabs := 0, 0
	for _, line := range lines[:min(len(lines), 5)] {
		commas += strings.Count(line, ",")
		tabs += strings.Count(line, "\t")
	}

	if tabs > commas {
		return cleaned, '\t', nil
	}
	return cleaned, ',', nil
}
