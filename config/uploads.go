package config

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// FieldAliases maps a canonical field name to the spreadsheet header names
// accepted for it. Header matching is case- and whitespace-insensitive, so
// aliases here are written in display form.
type FieldAliases map[string][]string

// HeaderRowOffset is added to a data row's 1-based position to report the
// original spreadsheet row number (one header row by default).
const HeaderRowOffset = 1

var defaultPOAliases = FieldAliases{
	"po_number":           {"PO Number", "PO No", "PO No.", "P.O. Number", "P.O. No.", "PO #", "PO"},
	"item_no":             {"Item No", "Item Number", "Item", "Item #", "Item No."},
	"po_date":             {"PO Date", "Date of PO", "P.O. Date", "Date"},
	"supplier":            {"Supplier", "Supplier Name", "Dealer", "Dealer Name"},
	"mode_of_procurement": {"Mode of Procurement", "Procurement Mode", "Mode"},
	"generic_name":        {"Generic Name", "Generic", "Item Description", "Description"},
	"brand_name":          {"Brand Name", "Brand"},
	"manufacturer":        {"Manufacturer", "Mfr", "Maker"},
	"acquisition_cost":    {"Acquisition Cost", "Unit Cost", "Unit Price", "Cost"},
	"quantity":            {"Quantity", "Qty", "Required Quantity", "Qty Required"},
	"total_cost":          {"Total Cost", "Total Amount", "Total", "Amount"},
	"delivery_status":     {"Delivery Status", "Status"},
	"bid_attempt":         {"Bid Attempt", "Bidding Attempt", "Attempt"},
}

var defaultIARAliases = FieldAliases{
	"iar_number":            {"IAR Number", "IAR No", "IAR No.", "IAR #", "IAR"},
	"po_number":             {"PO Number", "PO No", "PO No.", "P.O. Number", "P.O. No.", "PO #", "PO"},
	"item_number":           {"Item Number", "Item No", "Item", "Item #", "Item No."},
	"date_of_inspection":    {"Date of Inspection", "Inspection Date", "Date Inspected", "Date"},
	"inspected_quantity":    {"Inspected Quantity", "Qty Inspected", "Quantity Delivered", "Quantity", "Qty"},
	"requisitioning_office": {"Requisitioning Office", "Requesting Office", "End User", "Office"},
	"particulars":           {"Particulars", "Item Description", "Description"},
	"brand":                 {"Brand", "Brand Name"},
	"batch_lot_number":      {"Batch/Lot Number", "Batch/Lot No.", "Batch No", "Lot No", "Batch", "Lot"},
	"expiration_date":       {"Expiration Date", "Expiry Date", "Exp Date", "Expiry"},
}

var (
	aliasOnce  sync.Once
	poAliases  FieldAliases
	iarAliases FieldAliases
)

// aliasFile is the optional JSON override pointed to by UPLOAD_ALIASES_FILE:
// {"po": {canonical: [aliases...]}, "iar": {...}}. Listed fields replace the
// default alias list; unlisted fields keep their defaults.
type aliasFile struct {
	PO  FieldAliases `json:"po"`
	IAR FieldAliases `json:"iar"`
}

func loadAliases() {
	poAliases = cloneAliases(defaultPOAliases)
	iarAliases = cloneAliases(defaultIARAliases)

	path := os.Getenv("UPLOAD_ALIASES_FILE")
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("uploads config: cannot read %s: %v (using defaults)", path, err)
		return
	}
	var f aliasFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("uploads config: invalid JSON in %s: %v (using defaults)", path, err)
		return
	}
	for field, names := range f.PO {
		poAliases[field] = names
	}
	for field, names := range f.IAR {
		iarAliases[field] = names
	}
}

func cloneAliases(src FieldAliases) FieldAliases {
	out := make(FieldAliases, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// POAliases returns the header alias table for purchase-order line uploads.
func POAliases() FieldAliases {
	aliasOnce.Do(loadAliases)
	return poAliases
}

// IARAliases returns the header alias table for inspection-record uploads.
func IARAliases() FieldAliases {
	aliasOnce.Do(loadAliases)
	return iarAliases
}
