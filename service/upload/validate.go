package upload

import (
	"fmt"
	"strings"

	"protrack.GO/config"
)

// Row validation. Failures are collected per row and reported with the
// original spreadsheet row number; one bad row never aborts the batch.
// Date shape checks here are deliberately looser than commit-time strict
// parsing (regex shape vs. real calendar parse).

func validatePORow(in PORowInput) []string {
	var msgs []string
	if strings.TrimSpace(in.PONumber) == "" {
		msgs = append(msgs, "PO Number is required")
	}
	if strings.TrimSpace(in.ItemNo) == "" {
		msgs = append(msgs, "Item No is required")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		msgs = append(msgs, fmt.Sprintf("Quantity must not be negative (got %d)", *in.Quantity))
	}
	if in.BidAttempt != nil && *in.BidAttempt < 0 {
		msgs = append(msgs, fmt.Sprintf("Bid Attempt must not be negative (got %d)", *in.BidAttempt))
	}
	return msgs
}

func validateIARRow(in IARRowInput) []string {
	var msgs []string
	if strings.TrimSpace(in.IARNumber) == "" {
		msgs = append(msgs, "IAR Number is required")
	}
	if strings.TrimSpace(in.PONumber) == "" {
		msgs = append(msgs, "PO Number is required")
	}
	if strings.TrimSpace(in.ItemNumber) == "" {
		msgs = append(msgs, "Item Number is required")
	}
	if in.DateOfInspection == nil {
		msgs = append(msgs, "Date of Inspection is required")
	} else if !reISODate.MatchString(*in.DateOfInspection) {
		msgs = append(msgs, fmt.Sprintf("Date of Inspection is not a valid date (got %q)", *in.DateOfInspection))
	}
	if in.InspectedQuantity == nil {
		msgs = append(msgs, "Inspected Quantity is required")
	} else if *in.InspectedQuantity < 0 {
		msgs = append(msgs, fmt.Sprintf("Inspected Quantity must not be negative (got %d)", *in.InspectedQuantity))
	}
	return msgs
}

// rowNumber maps a 0-based data row position to the reported spreadsheet row.
func rowNumber(dataPos int) int {
	return dataPos + 1 + config.HeaderRowOffset
}
