package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buffer, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buffer.Bytes()
}

func TestDecode_HeaderKeyedRows(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"muestra", "fecha_muestra", "concentracion"},
		{"1.1", "05/03/2024", "37,5"},
		{"1.2", "06/03/2024", "40"},
	})

	rows, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1.1", rows[0]["muestra"])
	assert.Equal(t, "05/03/2024", rows[0]["fecha_muestra"])
	assert.Equal(t, "40", rows[1]["concentracion"])
}

func TestDecode_DropsBlankRowsAndFillsMissingCells(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"muestra", "fecha_muestra", "concentracion"},
		{"1.1", "05/03/2024", "37,5"},
		{"", "", ""},
		{"1.2"},
	})

	rows, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1.2", rows[1]["muestra"])
	assert.Equal(t, "", rows[1]["fecha_muestra"], "missing trailing cells become empty strings")
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not a spreadsheet"))
	assert.Error(t, err)
}
