package upload

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is the decoded active worksheet: header row plus data rows as raw
// string cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ReadSheet decodes xlsx bytes and returns the active sheet's header and data
// rows. Only the active sheet is read.
func ReadSheet(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	s := &Sheet{Name: name}
	if len(rows) > 0 {
		s.Header = rows[0]
		s.Rows = rows[1:]
	}
	return s, nil
}
