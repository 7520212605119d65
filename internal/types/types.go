// =============================================================================
// Prisme Transactions - Shared Types
// =============================================================================
//
// This package contains the tabular input types shared by the readers, the
// validator and the converter. Keeping them here avoids import cycles:
//   - csvparser and xlsxparser produce a Table
//   - validation checks its Rows
//   - converter transforms and encodes them
//
// =============================================================================

package types

// =============================================================================
// TABULAR INPUT
// =============================================================================

// Table is one input file read into rows.
type Table struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// Headers are the column headers in file order.
	Headers []string

	// Rows are the non-empty data rows in file order.
	Rows []Row
}

// Row is a single data row.
type Row struct {
	// Number is the 1-based row number in the source file, for error
	// reporting.
	Number int

	// Fields maps header (or mapped field name) to cell value.
	Fields map[string]string
}

// Get returns the value of a field, or "" when absent.
func (r Row) Get(name string) string {
	return r.Fields[name]
}

// Has reports whether the row carries a non-empty value for name.
func (r Row) Has(name string) bool {
	return r.Fields[name] != ""
}

// Column returns the values of one header across all rows.
func (t *Table) Column(header string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.Fields[header]
	}
	return values
}

// NewRow builds a row from header/value pairs. Missing cells become "".
func NewRow(number int, headers, cells []string) Row {
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(cells) {
			fields[header] = cells[i]
		} else {
			fields[header] = ""
		}
	}
	return Row{Number: number, Fields: fields}
}
