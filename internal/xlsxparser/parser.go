// =============================================================================
// Prisme Transactions - XLSX Input Parser
// =============================================================================
//
// This module reads batch input rows from an .xlsx workbook. The sheet is
// read like a CSV file: header rows first, then one data row per line.
//
// SHEET SELECTION:
//   The profile's csv_settings.sheet names the worksheet. When empty, the
//   first sheet of the workbook is used.
//
// CELL VALUES:
//   Cells are read as formatted text, so dates and amounts arrive the way
//   the sheet displays them. Use transformation rules (format_date,
//   format_number) to normalize them.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/csvparser"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the configured sheet of an .xlsx file into a table.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := ParseFile(f, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseFile reads the configured sheet of an open workbook.
func ParseFile(f *excelize.File, settings config.CSVSettings) (*types.Table, error) {
	sheetName, err := selectSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	headers, err := csvparser.ExtractHeaders(rows, settings.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	return &types.Table{
		Headers: headers,
		Rows:    csvparser.ExtractDataRows(rows, headers, settings.DataStartRow),
	}, nil
}

// selectSheet returns the named sheet, or the first sheet when name is
// empty.
func selectSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		first := f.GetSheetName(0)
		if first == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return first, nil
	}

	for _, sheet := range f.GetSheetList() {
		if sheet == name {
			return sheet, nil
		}
	}
	return "", fmt.Errorf("workbook has no sheet %q", name)
}
