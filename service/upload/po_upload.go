package upload

import (
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"protrack.GO/config"
	entity "protrack.GO/model/entity/procurement"
	repo "protrack.GO/model/repository/procurement"
)

// POParseResult is the preview response for a purchase-order upload.
type POParseResult struct {
	SheetName      string       `json:"sheet_name"`
	TotalRows      int          `json:"total_rows"`
	ValidRowsCount int          `json:"valid_rows_count"`
	Errors         []RowError   `json:"errors"`
	Preview        []PORowInput `json:"preview"`
	AllValidRows   []PORowInput `json:"all_valid_rows"`
}

// POLedgerEntry is one per-row commit outcome.
type POLedgerEntry struct {
	PONumber string `json:"po_number"`
	ItemNo   string `json:"item_no"`
	Result   string `json:"result"`
	Reason   string `json:"reason,omitempty"`
}

// POCommitResult is the commit response. InsertedCount is the count reported
// by the storage layer, not the engine's own tally.
type POCommitResult struct {
	InsertedCount     int64           `json:"inserted_count"`
	TotalReceived     int             `json:"total_received"`
	SkippedDuplicates int             `json:"skipped_duplicates"`
	Logs              []POLedgerEntry `json:"logs"`
}

// ParsePOSheet extracts and validates purchase-order lines from xlsx bytes.
// Per-row failures are collected; nothing here aborts the batch.
func ParsePOSheet(data []byte) (*POParseResult, error) {
	sheet, err := ReadSheet(data)
	if err != nil {
		return nil, err
	}

	idx := BuildHeaderIndex(sheet.Header)
	aliases := config.POAliases()

	res := &POParseResult{
		SheetName: sheet.Name,
		TotalRows: len(sheet.Rows),
		Errors:    []RowError{},
	}
	for i, row := range sheet.Rows {
		if blankRow(row) {
			continue
		}
		in, err := ExtractPORow(row, idx, aliases)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Index: rowNumber(i), Message: err.Error()})
			continue
		}
		msgs := validatePORow(in)
		if len(msgs) > 0 {
			for _, m := range msgs {
				res.Errors = append(res.Errors, RowError{Index: rowNumber(i), Message: m})
			}
			continue
		}
		res.AllValidRows = append(res.AllValidRows, in)
	}

	res.ValidRowsCount = len(res.AllValidRows)
	if len(res.AllValidRows) > previewLimit {
		res.Preview = res.AllValidRows[:previewLimit]
	} else {
		res.Preview = res.AllValidRows
	}
	return res, nil
}

// CommitPORows reconciles validated rows against the incoming batch and
// storage, bulk-inserts the remainder, and returns the per-row ledger.
func CommitPORows(r *repo.PORepository, rows []PORowInput) (*POCommitResult, error) {
	res := &POCommitResult{
		TotalReceived: len(rows),
		Logs:          make([]POLedgerEntry, len(rows)),
	}

	// Intra-batch dedup: first occurrence of a key wins.
	type keptRow struct {
		pos int
		in  PORowInput
	}
	seen := make(map[string]struct{}, len(rows))
	var kept []keptRow
	for i, in := range rows {
		key := repo.CompositeKey(in.PONumber, in.ItemNo)
		res.Logs[i] = POLedgerEntry{
			PONumber: strings.TrimSpace(in.PONumber),
			ItemNo:   strings.TrimSpace(in.ItemNo),
		}
		if _, dup := seen[key]; dup {
			res.Logs[i].Result = ResultSkipped
			res.Logs[i].Reason = ReasonDuplicateInUpload
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, keptRow{pos: i, in: in})
	}

	// Strict date parsing happens at commit time on already-valid rows; a
	// malformed date fails the whole batch.
	items := make([]entity.POLineItem, 0, len(kept))
	pairs := make([][2]string, 0, len(kept))
	for _, k := range kept {
		item, err := buildPOLineItem(k.in, k.pos+1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		pairs = append(pairs, [2]string{k.in.PONumber, k.in.ItemNo})
	}

	existing, err := r.FindExistingKeys(pairs, keyLookupChunkSize)
	if err != nil {
		return nil, &StoreError{Op: "existing-key lookup", Err: err}
	}

	insertSet := make([]entity.POLineItem, 0, len(items))
	for j, k := range kept {
		key := repo.CompositeKey(k.in.PONumber, k.in.ItemNo)
		if _, ok := existing[key]; ok {
			res.Logs[k.pos].Result = ResultSkipped
			res.Logs[k.pos].Reason = ReasonAlreadyExists
			continue
		}
		res.Logs[k.pos].Result = ResultInserted
		insertSet = append(insertSet, items[j])
	}

	inserted, err := r.BulkInsert(insertSet, insertBatchSize)
	if err != nil {
		return nil, &StoreError{Op: "bulk insert", Err: err}
	}
	res.InsertedCount = inserted

	for _, e := range res.Logs {
		if e.Result == ResultSkipped {
			res.SkippedDuplicates++
			rowsSkipped.WithLabelValues("po", e.Reason).Inc()
		}
	}
	rowsInserted.WithLabelValues("po").Add(float64(inserted))
	return res, nil
}

// InsertPORow is the manual single-row insert: required-field validation, a
// conflict check on the composite key, then a plain insert.
func InsertPORow(r *repo.PORepository, in PORowInput) (*entity.POLineItem, error) {
	if msgs := validatePORow(in); len(msgs) > 0 {
		return nil, fmt.Errorf("invalid line item: %s", strings.Join(msgs, "; "))
	}
	exists, err := r.Exists(in.PONumber, in.ItemNo)
	if err != nil {
		return nil, &StoreError{Op: "conflict check", Err: err}
	}
	if exists {
		return nil, &ConflictError{Key: repo.CompositeKey(in.PONumber, in.ItemNo)}
	}
	item, err := buildPOLineItem(in, 1)
	if err != nil {
		return nil, err
	}
	if err := r.Insert(&item); err != nil {
		return nil, &StoreError{Op: "insert", Err: err}
	}
	return &item, nil
}

func buildPOLineItem(in PORowInput, row int) (entity.POLineItem, error) {
	item := entity.POLineItem{
		PONumber:          strings.TrimSpace(in.PONumber),
		ItemNo:            strings.TrimSpace(in.ItemNo),
		Supplier:          in.Supplier,
		ModeOfProcurement: in.ModeOfProcurement,
		GenericName:       in.GenericName,
		BrandName:         in.BrandName,
		Manufacturer:      in.Manufacturer,
		AcquisitionCost:   in.AcquisitionCost,
		Quantity:          in.Quantity,
		TotalCost:         in.TotalCost,
		DeliveryStatus:    in.DeliveryStatus,
		BidAttempt:        in.BidAttempt,
	}
	if in.PODate != nil {
		d, err := parseStrictDate(*in.PODate, "PO Date", row)
		if err != nil {
			return item, err
		}
		item.PODate = datePtr(d)
	}
	return item, nil
}

func datePtr(d datatypes.Date) *datatypes.Date { return &d }

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
