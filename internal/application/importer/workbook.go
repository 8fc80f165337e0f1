package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet's raw cell grid. Rows[0] is the header row.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadWorkbook parses raw workbook bytes and returns the sheets whose name
// exactly matches the allow-list, in workbook order. Sheets outside the
// allow-list are ignored entirely.
// PRE: data is the full content of an .xlsx file
// POST: returns the allowed sheets, or an error when the bytes are not a
// parsable workbook (no partial result)
func ReadWorkbook(data []byte, allowed []string) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	defer f.Close()

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if !allowedSet[name] {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}
