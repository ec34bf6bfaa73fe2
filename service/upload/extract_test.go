package upload

import (
	"testing"

	"protrack.GO/config"
)

func TestBuildHeaderIndex(t *testing.T) {
	idx := BuildHeaderIndex([]string{" PO  Number ", "Item No", "", "po number"})
	if idx["po number"] != 0 {
		t.Errorf("po number column = %d, want 0 (first wins)", idx["po number"])
	}
	if idx["item no"] != 1 {
		t.Errorf("item no column = %d, want 1", idx["item no"])
	}
	if _, ok := idx[""]; ok {
		t.Error("blank header must not be indexed")
	}
}

func TestLookupField_AliasOrder(t *testing.T) {
	idx := BuildHeaderIndex([]string{"P.O. No.", "Qty"})
	row := []string{"PO-1", "5"}
	got := LookupField(row, idx, config.POAliases(), "po_number")
	if got == nil || *got != "PO-1" {
		t.Errorf("got %v, want PO-1", got)
	}
	if got := LookupField(row, idx, config.POAliases(), "supplier"); got != nil {
		t.Errorf("got %q for absent column, want nil", *got)
	}
}

func TestLookupField_ShortRow(t *testing.T) {
	idx := BuildHeaderIndex([]string{"PO Number", "Supplier"})
	got := LookupField([]string{"PO-1"}, idx, config.POAliases(), "supplier")
	if got != nil {
		t.Errorf("got %q for short row, want nil", *got)
	}
}

func TestSplitGenericAndBrand(t *testing.T) {
	cases := []struct {
		name        string
		generic     interface{}
		brand       interface{}
		wantGeneric string
		wantBrand   string
	}{
		{"explicit brand wins", `Paracetamol 500mg "Biogesic"`, "Biogesic", "Paracetamol 500mg", "Biogesic"},
		{"implied trailing brand", `Amoxicillin 250mg, "Amoxil"`, nil, "Amoxicillin 250mg", "Amoxil"},
		{"no brand", "Gauze pads 4x4", nil, "Gauze pads 4x4", ""},
		{"brand only", nil, "BrandZ", "", "BrandZ"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, b := SplitGenericAndBrand(c.generic, c.brand)
			if got := deref(g); got != c.wantGeneric {
				t.Errorf("generic = %q, want %q", got, c.wantGeneric)
			}
			if got := deref(b); got != c.wantBrand {
				t.Errorf("brand = %q, want %q", got, c.wantBrand)
			}
		})
	}
}

func TestParseParticulars(t *testing.T) {
	p := ParseParticulars(`Batch: AB-12345; Exp: 03/2026 "BrandX"`)
	if deref(p.Brand) != "BrandX" {
		t.Errorf("brand = %q, want BrandX", deref(p.Brand))
	}
	if deref(p.BatchLotNumber) != "AB-12345" {
		t.Errorf("batch = %q, want AB-12345", deref(p.BatchLotNumber))
	}
	if deref(p.ExpirationDate) != "2026-03-01" {
		t.Errorf("expiry = %q, want 2026-03-01", deref(p.ExpirationDate))
	}
}

func TestParseParticulars_LabelVariants(t *testing.T) {
	p := ParseParticulars("Lot No. X-99887, Expiry Date: 2025-12-31")
	if deref(p.BatchLotNumber) != "X-99887" {
		t.Errorf("batch = %q, want X-99887", deref(p.BatchLotNumber))
	}
	if deref(p.ExpirationDate) != "2025-12-31" {
		t.Errorf("expiry = %q, want 2025-12-31", deref(p.ExpirationDate))
	}
	if p.Brand != nil {
		t.Errorf("brand = %q, want nil", *p.Brand)
	}
}

func TestParseParticulars_Fallbacks(t *testing.T) {
	// No labels: a bare code line and an inline month token.
	p := ParseParticulars("CX-20031\n6/2027")
	if deref(p.BatchLotNumber) != "CX-20031" {
		t.Errorf("batch = %q, want CX-20031", deref(p.BatchLotNumber))
	}
	if deref(p.ExpirationDate) != "2027-06-01" {
		t.Errorf("expiry = %q, want 2027-06-01", deref(p.ExpirationDate))
	}
}

func TestParseParticulars_NoMatchInsideWords(t *testing.T) {
	// "Lotion" must not trigger the Lot label.
	p := ParseParticulars("Calamine Lotion 100ml")
	if p.BatchLotNumber != nil {
		t.Errorf("batch = %q, want nil", *p.BatchLotNumber)
	}
}

func TestParseParticulars_Empty(t *testing.T) {
	p := ParseParticulars("   ")
	if p.Brand != nil || p.BatchLotNumber != nil || p.ExpirationDate != nil {
		t.Errorf("want all nil, got %+v", p)
	}
}

func TestExtractPORow(t *testing.T) {
	header := []string{"PO Number", "Item No", "PO Date", "Supplier", "Generic Name", "Unit Cost", "Qty"}
	idx := BuildHeaderIndex(header)
	row := []string{" PO-2024-001 ", "1", "1/15/2024", "Acme Pharma", `Paracetamol 500mg "Biogesic"`, "1,250.505", "1,000"}

	in, err := ExtractPORow(row, idx, config.POAliases())
	if err != nil {
		t.Fatalf("ExtractPORow: %v", err)
	}
	if in.PONumber != "PO-2024-001" {
		t.Errorf("PONumber = %q", in.PONumber)
	}
	if in.ItemNo != "1" {
		t.Errorf("ItemNo = %q", in.ItemNo)
	}
	if deref(in.PODate) != "2024-01-15" {
		t.Errorf("PODate = %q", deref(in.PODate))
	}
	if deref(in.GenericName) != "Paracetamol 500mg" {
		t.Errorf("GenericName = %q", deref(in.GenericName))
	}
	if deref(in.BrandName) != "Biogesic" {
		t.Errorf("BrandName = %q", deref(in.BrandName))
	}
	if in.AcquisitionCost == nil || *in.AcquisitionCost != 1250.51 {
		t.Errorf("AcquisitionCost = %v", in.AcquisitionCost)
	}
	if in.Quantity == nil || *in.Quantity != 1000 {
		t.Errorf("Quantity = %v", in.Quantity)
	}
}

func TestExtractIARRow_ParticularsFillGaps(t *testing.T) {
	header := []string{"IAR Number", "PO Number", "Item Number", "Date of Inspection", "Qty Inspected", "Particulars"}
	idx := BuildHeaderIndex(header)
	row := []string{"IAR-77", "PO-2024-001", "1", "2024-02-01", "400", `Batch: AB-12345; Exp: 03/2026 "BrandX"`}

	in, err := ExtractIARRow(row, idx, config.IARAliases())
	if err != nil {
		t.Fatalf("ExtractIARRow: %v", err)
	}
	if deref(in.Brand) != "BrandX" {
		t.Errorf("Brand = %q", deref(in.Brand))
	}
	if deref(in.BatchLotNumber) != "AB-12345" {
		t.Errorf("BatchLotNumber = %q", deref(in.BatchLotNumber))
	}
	if deref(in.ExpirationDate) != "2026-03-01" {
		t.Errorf("ExpirationDate = %q", deref(in.ExpirationDate))
	}
	if in.InspectedQuantity == nil || *in.InspectedQuantity != 400 {
		t.Errorf("InspectedQuantity = %v", in.InspectedQuantity)
	}
}

func TestExtractIARRow_ExplicitColumnsWin(t *testing.T) {
	header := []string{"IAR Number", "PO Number", "Item Number", "Date of Inspection", "Qty Inspected", "Brand", "Particulars"}
	idx := BuildHeaderIndex(header)
	row := []string{"IAR-78", "PO-2024-001", "2", "2024-02-02", "10", "ColumnBrand", `"QuotedBrand" Batch: ZZ-00001`}

	in, err := ExtractIARRow(row, idx, config.IARAliases())
	if err != nil {
		t.Fatalf("ExtractIARRow: %v", err)
	}
	if deref(in.Brand) != "ColumnBrand" {
		t.Errorf("Brand = %q, want ColumnBrand", deref(in.Brand))
	}
	if deref(in.BatchLotNumber) != "ZZ-00001" {
		t.Errorf("BatchLotNumber = %q, want ZZ-00001", deref(in.BatchLotNumber))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
