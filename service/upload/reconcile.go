package upload

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Reconciliation machinery shared by the PO and IAR commit paths.

const (
	// keyLookupChunkSize bounds the size of existing-key probe queries.
	keyLookupChunkSize = 500
	// insertBatchSize bounds bulk-insert statements.
	insertBatchSize = 500
	// previewLimit caps the preview slice in parse responses.
	previewLimit = 200
)

// Ledger results and skip reasons.
const (
	ResultInserted = "inserted"
	ResultSkipped  = "skipped"

	ReasonDuplicateInUpload = "duplicate_in_upload"
	ReasonAlreadyExists     = "already_exists"
)

// parseStrictDate is the commit-time date parser: a real calendar parse of
// YYYY-MM-DD only. Stricter than preview validation on purpose — a malformed
// date aborts the whole commit.
func parseStrictDate(value, field string, row int) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return datatypes.Date{}, &BatchFatalError{Row: row, Field: field, Value: value}
	}
	return datatypes.Date(t), nil
}
