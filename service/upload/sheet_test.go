package upload

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildSheet writes a one-sheet workbook and returns its bytes.
func buildSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestReadSheet(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"PO Number", "Item No"},
		{"PO-1", "1"},
		{"PO-1", "2"},
	})
	sheet, err := ReadSheet(data)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(sheet.Header) != 2 || sheet.Header[0] != "PO Number" {
		t.Errorf("header = %v", sheet.Header)
	}
	if len(sheet.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(sheet.Rows))
	}
}

func TestReadSheet_NotASpreadsheet(t *testing.T) {
	if _, err := ReadSheet([]byte("not an xlsx")); err == nil {
		t.Fatal("want error for invalid workbook")
	}
}

func TestParsePOSheet(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"PO Number", "Item No", "Qty"},
		{"PO-1", "1", "100"},
		{"", "", ""},        // blank row is ignored
		{"", "2", "50"},     // missing PO number
		{"PO-1", "3", "-5"}, // negative quantity
	})
	res, err := ParsePOSheet(data)
	if err != nil {
		t.Fatalf("ParsePOSheet: %v", err)
	}
	if res.ValidRowsCount != 1 {
		t.Errorf("ValidRowsCount = %d, want 1", res.ValidRowsCount)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("Errors = %+v, want 2", res.Errors)
	}
	// Reported row numbers are original spreadsheet rows (1-based, after
	// the header).
	if res.Errors[0].Index != 4 {
		t.Errorf("first error row = %d, want 4", res.Errors[0].Index)
	}
	if res.Errors[1].Index != 5 {
		t.Errorf("second error row = %d, want 5", res.Errors[1].Index)
	}
}

func TestParseIARSheet(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"IAR Number", "PO Number", "Item Number", "Date of Inspection", "Qty Inspected", "Particulars"},
		{"IAR-1", "PO-1", "1", "2024-02-01", "400", `Batch: AB-12345; Exp: 03/2026 "BrandX"`},
		{"IAR-2", "PO-1", "2", "not a date", "10", ""},
	})
	res, err := ParseIARSheet(data)
	if err != nil {
		t.Fatalf("ParseIARSheet: %v", err)
	}
	if res.ValidRowsCount != 1 {
		t.Fatalf("ValidRowsCount = %d, want 1; errors: %+v", res.ValidRowsCount, res.Errors)
	}
	row := res.AllValidRows[0]
	if row.Brand == nil || *row.Brand != "BrandX" {
		t.Errorf("Brand = %v, want BrandX", row.Brand)
	}
	if len(res.Errors) != 1 || res.Errors[0].Index != 3 {
		t.Errorf("Errors = %+v, want one error at row 3", res.Errors)
	}
}
