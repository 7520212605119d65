// =============================================================================
// Prisme Transactions - 10Q Spreadsheet Export
// =============================================================================
//
// This module writes grouped 10Q records to an .xlsx workbook: one header
// row, then one row per logical transaction. The first column holds the
// comma-separated source line numbers of the group; the remaining columns
// follow tenq.Headers.
//
// CELL VALUES:
//   Values are written as text exactly as they appear in the 10Q file, so
//   zero-padded numbers keep their leading zeros. With DisplayAmounts set,
//   the amount columns are decoded and written as formatted kroner instead.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/prisme-transactions/internal/tenq"
)

// SheetName is the name of the exported worksheet.
const SheetName = "10Q"

// amountColumns are decoded when Options.DisplayAmounts is set.
var amountColumns = map[string]bool{
	tenq.ColRateAmount:   true,
	tenq.ColInterestFree: true,
}

// Options controls the export.
type Options struct {
	// DisplayAmounts writes signed øre amounts as formatted kroner.
	DisplayAmounts bool
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// SaveGroups writes groups to a new workbook at path.
func SaveGroups(groups []*tenq.Group, path string) error {
	return SaveGroupsWithOptions(groups, path, Options{})
}

// SaveGroupsWithOptions writes groups to a new workbook at path.
func SaveGroupsWithOptions(groups []*tenq.Group, path string, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := WriteGroups(f, SheetName, groups, opts); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// WriteGroups writes the header and group rows to an existing sheet.
func WriteGroups(f *excelize.File, sheet string, groups []*tenq.Group, opts Options) error {
	headers := tenq.Headers(groups)

	if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	for i, g := range groups {
		cells := make([]any, len(headers))
		cells[0] = g.LineNosString()
		for j, name := range headers[1:] {
			value, ok := g.Get(name)
			if !ok {
				cells[j+1] = nil
				continue
			}
			cells[j+1] = cellValue(name, value, opts)
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

// cellValue returns the cell content for one field.
func cellValue(name, value string, opts Options) any {
	if opts.DisplayAmounts && amountColumns[name] {
		if m, err := tenq.ParseAmount(name, value); err == nil {
			return m.Display()
		}
	}
	return value
}

func writeRow(f *excelize.File, sheet string, rowNo int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNo, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
