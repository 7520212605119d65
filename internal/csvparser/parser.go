// =============================================================================
// Prisme Transactions - CSV Parser Module
// =============================================================================
//
// This module reads batch input exported as CSV into a types.Table. It
// handles:
//   - Different delimiters (semicolon, comma, pipe, tab)
//   - Multi-line headers
//   - Custom data start rows
//   - A UTF-8 byte order mark on the first header (spreadsheet exports)
//   - Quoted fields, including quoted line breaks in free text
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
)

const byteOrderMark = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a table.
//
// PARSING PROCESS:
//   1. Configure the CSV reader with the profile delimiter
//   2. Read and merge header rows (for multi-line headers)
//   3. Read data rows starting from the configured data start row
//   4. Convert each non-empty row to a header -> value map
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseReader reads CSV data from r into a table.
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if len(allRows[0]) > 0 {
		allRows[0][0] = strings.TrimPrefix(allRows[0][0], byteOrderMark)
	}

	headers, err := ExtractHeaders(allRows, settings.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	return &types.Table{
		Headers: headers,
		Rows:    ExtractDataRows(allRows, headers, settings.DataStartRow),
	}, nil
}

// configureReader applies the delimiter setting to the CSV reader.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case ",", "comma":
		reader.Comma = ','
	default:
		if r := []rune(settings.Delimiter); len(r) > 0 {
			reader.Comma = r[0]
		} else {
			reader.Comma = ';'
		}
	}

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// ExtractHeaders merges the first headerRows rows into one header per
// column. Parts are joined with a space; empty headers become "Column_N".
//
//   Row 1: "Modtager", "",      "Beløb"
//   Row 2: "CPR",      "Navn",  ""
//   Result: "Modtager CPR", "Navn", "Beløb"
func ExtractHeaders(allRows [][]string, headerRows int) ([]string, error) {
	if headerRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}
	if len(allRows) < headerRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	maxCols := 0
	for i := 0; i < headerRows; i++ {
		maxCols = max(maxCols, len(allRows[i]))
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < headerRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers and names empty ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// ExtractDataRows converts rows from the 1-based dataStartRow onwards into
// table rows. Blank rows are skipped; values are trimmed.
func ExtractDataRows(allRows [][]string, headers []string, dataStartRow int) []types.Row {
	startIndex := dataStartRow - 1
	if startIndex < 0 {
		startIndex = 1
	}
	if startIndex >= len(allRows) {
		return []types.Row{}
	}

	rows := make([]types.Row, 0, len(allRows)-startIndex)
	for i := startIndex; i < len(allRows); i++ {
		if isRowEmpty(allRows[i]) {
			continue
		}
		cells := make([]string, len(allRows[i]))
		for j, cell := range allRows[i] {
			cells[j] = strings.TrimSpace(cell)
		}
		rows = append(rows, types.NewRow(i+1, headers, cells))
	}
	return rows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
