package upload

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"protrack.GO/config"
)

// PORowInput is one validated purchase-order line as it travels between
// parse and commit (and as the manual-insert body). Dates are ISO strings
// until commit-time strict parsing.
type PORowInput struct {
	PONumber          string   `json:"po_number"`
	ItemNo            string   `json:"item_no"`
	PODate            *string  `json:"po_date,omitempty"`
	Supplier          *string  `json:"supplier,omitempty"`
	ModeOfProcurement *string  `json:"mode_of_procurement,omitempty"`
	GenericName       *string  `json:"generic_name,omitempty"`
	BrandName         *string  `json:"brand_name,omitempty"`
	Manufacturer      *string  `json:"manufacturer,omitempty"`
	AcquisitionCost   *float64 `json:"acquisition_cost,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	TotalCost         *float64 `json:"total_cost,omitempty"`
	DeliveryStatus    *string  `json:"delivery_status,omitempty"`
	BidAttempt        *int     `json:"bid_attempt,omitempty"`
}

// IARRowInput is one validated inspection record between parse and commit.
// Manufacturer is deliberately absent: it is backfilled from the matching
// PO line item at commit time.
type IARRowInput struct {
	IARNumber            string  `json:"iar_number"`
	PONumber             string  `json:"po_number"`
	ItemNumber           string  `json:"item_number"`
	DateOfInspection     *string `json:"date_of_inspection,omitempty"`
	InspectedQuantity    *int    `json:"inspected_quantity,omitempty"`
	RequisitioningOffice *string `json:"requisitioning_office,omitempty"`
	Brand                *string `json:"brand,omitempty"`
	BatchLotNumber       *string `json:"batch_lot_number,omitempty"`
	ExpirationDate       *string `json:"expiration_date,omitempty"`
}

// ExtractPORow maps one raw sheet row onto the PO schema: alias lookup,
// normalization, then flat-map decode into the typed input.
func ExtractPORow(row []string, idx HeaderIndex, aliases config.FieldAliases) (PORowInput, error) {
	flat := map[string]interface{}{}

	putStr(flat, "po_number", CleanText(rawField(row, idx, aliases, "po_number")))
	putStr(flat, "item_no", CleanText(rawField(row, idx, aliases, "item_no")))
	putStr(flat, "po_date", NormalizeDateOnly(rawField(row, idx, aliases, "po_date")))
	putStr(flat, "supplier", CleanText(rawField(row, idx, aliases, "supplier")))
	putStr(flat, "mode_of_procurement", CleanText(rawField(row, idx, aliases, "mode_of_procurement")))

	generic, brand := SplitGenericAndBrand(
		rawField(row, idx, aliases, "generic_name"),
		rawField(row, idx, aliases, "brand_name"),
	)
	putStr(flat, "generic_name", generic)
	putStr(flat, "brand_name", brand)

	putStr(flat, "manufacturer", CleanText(rawField(row, idx, aliases, "manufacturer")))
	putFloat(flat, "acquisition_cost", NormalizeMoney(rawField(row, idx, aliases, "acquisition_cost")))
	putInt(flat, "quantity", NormalizeInteger(rawField(row, idx, aliases, "quantity")))
	putFloat(flat, "total_cost", NormalizeMoney(rawField(row, idx, aliases, "total_cost")))
	putStr(flat, "delivery_status", CleanText(rawField(row, idx, aliases, "delivery_status")))
	putInt(flat, "bid_attempt", NormalizeInteger(rawField(row, idx, aliases, "bid_attempt")))

	var in PORowInput
	if err := decodeRow(flat, &in); err != nil {
		return in, err
	}
	return in, nil
}

// ExtractIARRow maps one raw sheet row onto the IAR schema. Explicit brand,
// batch and expiry columns win; gaps are filled from the free-text
// particulars cell.
func ExtractIARRow(row []string, idx HeaderIndex, aliases config.FieldAliases) (IARRowInput, error) {
	flat := map[string]interface{}{}

	putStr(flat, "iar_number", CleanText(rawField(row, idx, aliases, "iar_number")))
	putStr(flat, "po_number", CleanText(rawField(row, idx, aliases, "po_number")))
	putStr(flat, "item_number", CleanText(rawField(row, idx, aliases, "item_number")))
	putStr(flat, "date_of_inspection", NormalizeDateOnly(rawField(row, idx, aliases, "date_of_inspection")))
	putInt(flat, "inspected_quantity", NormalizeInteger(rawField(row, idx, aliases, "inspected_quantity")))
	putStr(flat, "requisitioning_office", CleanText(rawField(row, idx, aliases, "requisitioning_office")))

	brand := CleanText(rawField(row, idx, aliases, "brand"))
	batch := CleanText(rawField(row, idx, aliases, "batch_lot_number"))
	expiry := NormalizeMonthYearOrDate(rawField(row, idx, aliases, "expiration_date"))

	if brand == nil || batch == nil || expiry == nil {
		p := ParseParticulars(rawField(row, idx, aliases, "particulars"))
		if brand == nil {
			brand = p.Brand
		}
		if batch == nil {
			batch = p.BatchLotNumber
		}
		if expiry == nil {
			expiry = p.ExpirationDate
		}
	}
	putStr(flat, "brand", brand)
	putStr(flat, "batch_lot_number", batch)
	putStr(flat, "expiration_date", expiry)

	var in IARRowInput
	if err := decodeRow(flat, &in); err != nil {
		return in, err
	}
	return in, nil
}

func rawField(row []string, idx HeaderIndex, aliases config.FieldAliases, canonical string) interface{} {
	v := LookupField(row, idx, aliases, canonical)
	if v == nil {
		return nil
	}
	return *v
}

// decodeRow decodes a flat canonical-field map into a typed row input.
func decodeRow(flat map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("row decoder: %w", err)
	}
	if err := dec.Decode(flat); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}

func putStr(m map[string]interface{}, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func putInt(m map[string]interface{}, key string, v *int) {
	if v != nil {
		m[key] = *v
	}
}

func putFloat(m map[string]interface{}, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}
