package upload

import "fmt"

// RowError is a non-fatal per-row validation failure. Index is the original
// spreadsheet row number (data position + header offset). Collected, never
// raised.
type RowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BatchFatalError aborts an entire commit: a row that passed preview
// validation failed strict date parsing at commit time.
type BatchFatalError struct {
	Row   int
	Field string
	Value string
}

func (e *BatchFatalError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q, expected YYYY-MM-DD", e.Row, e.Field, e.Value)
}

// ConflictError means a manual insert targeted an existing composite key.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record already exists for key %s", e.Key)
}

// StoreError wraps a repository failure. Op names the operation that hit
// the store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// InfrastructureError means required storage is unavailable (e.g. the
// inspection_records table is missing).
type InfrastructureError struct {
	Hint string
	Err  error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Hint, e.Err)
	}
	return e.Hint
}

func (e *InfrastructureError) Unwrap() error { return e.Err }
