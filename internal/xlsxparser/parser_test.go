package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"debitor", "beloeb", "tekst"},
		{"1234567890", 1000, "Husleje"},
		{},
		{"1111111111", 50},
	})

	table, err := Parse(path, config.CSVSettings{HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)
	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, []string{"debitor", "beloeb", "tekst"}, table.Headers)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, map[string]string{"debitor": "1234567890", "beloeb": "1000", "tekst": "Husleje"}, table.Rows[0].Fields)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "", table.Rows[1].Get("tekst"))
	assert.Equal(t, 4, table.Rows[1].Number)
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]any{
		{"kontonr", "beløb"},
		{"12345678", "100,50"},
	})

	table, err := Parse(path, config.CSVSettings{Sheet: "Data", HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "100,50", table.Rows[0].Get("beløb"))

	_, err = Parse(path, config.CSVSettings{Sheet: "Missing", HeaderRows: 1, DataStartRow: 2})
	assert.ErrorContains(t, err, `"Missing"`)

	_, err = Parse(path, config.CSVSettings{HeaderRows: 1, DataStartRow: 2})
	assert.ErrorContains(t, err, "empty", "the default first sheet has no rows")
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), config.CSVSettings{HeaderRows: 1})
	assert.Error(t, err)
}
