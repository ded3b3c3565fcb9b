package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by header name. Cells are kept as the
// strings excelize yields; typing happens in ParseRow only.
type Row map[string]string

// Decode reads the first sheet of an XLSX file into header-keyed rows.
// The first non-empty row is taken as the header; fully blank rows are dropped.
func Decode(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no contiene hojas")
	}

	rawRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("el archivo no contiene filas")
	}

	headers := rawRows[0]
	rows := make([]Row, 0, len(rawRows)-1)
	for _, rawRow := range rawRows[1:] {
		if isBlank(rawRow) {
			continue
		}
		row := make(Row, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(rawRow) {
				row[header] = rawRow[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
