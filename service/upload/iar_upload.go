package upload

import (
	"fmt"
	"strings"

	"protrack.GO/config"
	entity "protrack.GO/model/entity/procurement"
	repo "protrack.GO/model/repository/procurement"
)

// IARParseResult is the preview response for an inspection-record upload.
type IARParseResult struct {
	SheetName      string        `json:"sheet_name"`
	TotalRows      int           `json:"total_rows"`
	ValidRowsCount int           `json:"valid_rows_count"`
	Errors         []RowError    `json:"errors"`
	Preview        []IARRowInput `json:"preview"`
	AllValidRows   []IARRowInput `json:"all_valid_rows"`
}

// IARLedgerEntry is one per-row commit outcome.
type IARLedgerEntry struct {
	IARNumber  string `json:"iar_number"`
	PONumber   string `json:"po_number"`
	ItemNumber string `json:"item_number"`
	Result     string `json:"result"`
	Reason     string `json:"reason,omitempty"`
}

// IARCommitResult is the commit response for inspection records.
type IARCommitResult struct {
	InsertedCount     int64            `json:"inserted_count"`
	TotalReceived     int              `json:"total_received"`
	SkippedDuplicates int              `json:"skipped_duplicates"`
	Logs              []IARLedgerEntry `json:"logs"`
}

// ParseIARSheet extracts and validates inspection records from xlsx bytes.
func ParseIARSheet(data []byte) (*IARParseResult, error) {
	sheet, err := ReadSheet(data)
	if err != nil {
		return nil, err
	}

	idx := BuildHeaderIndex(sheet.Header)
	aliases := config.IARAliases()

	res := &IARParseResult{
		SheetName: sheet.Name,
		TotalRows: len(sheet.Rows),
		Errors:    []RowError{},
	}
	for i, row := range sheet.Rows {
		if blankRow(row) {
			continue
		}
		in, err := ExtractIARRow(row, idx, aliases)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Index: rowNumber(i), Message: err.Error()})
			continue
		}
		msgs := validateIARRow(in)
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

// CommitIARRows reconciles validated inspection rows, backfills manufacturers
// from the matching PO line items, bulk-inserts the remainder, and returns
// the per-row ledger.
func CommitIARRows(iarRepo *repo.IARRepository, poRepo *repo.PORepository, rows []IARRowInput) (*IARCommitResult, error) {
	if !iarRepo.HasSchema() {
		return nil, &InfrastructureError{
			Hint: "inspection_records table is missing; run `protrack db:migrate` and restart",
		}
	}

	res := &IARCommitResult{
		TotalReceived: len(rows),
		Logs:          make([]IARLedgerEntry, len(rows)),
	}

	type keptRow struct {
		pos int
		in  IARRowInput
	}
	seen := make(map[string]struct{}, len(rows))
	var kept []keptRow
	for i, in := range rows {
		key := repo.CompositeKey(in.IARNumber, in.PONumber, in.ItemNumber)
		res.Logs[i] = IARLedgerEntry{
			IARNumber:  strings.TrimSpace(in.IARNumber),
			PONumber:   strings.TrimSpace(in.PONumber),
			ItemNumber: strings.TrimSpace(in.ItemNumber),
		}
		if _, dup := seen[key]; dup {
			res.Logs[i].Result = ResultSkipped
			res.Logs[i].Reason = ReasonDuplicateInUpload
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, keptRow{pos: i, in: in})
	}

	records := make([]entity.InspectionRecord, 0, len(kept))
	triples := make([][3]string, 0, len(kept))
	pairs := make([][2]string, 0, len(kept))
	seenPair := make(map[string]struct{}, len(kept))
	for _, k := range kept {
		rec, err := buildInspectionRecord(k.in, k.pos+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		triples = append(triples, [3]string{k.in.IARNumber, k.in.PONumber, k.in.ItemNumber})
		pairKey := repo.CompositeKey(k.in.PONumber, k.in.ItemNumber)
		if _, ok := seenPair[pairKey]; !ok {
			seenPair[pairKey] = struct{}{}
			pairs = append(pairs, [2]string{k.in.PONumber, k.in.ItemNumber})
		}
	}

	// Both lookups complete before the insert payload is assembled; their
	// relative order is not load-bearing.
	existing, err := iarRepo.FindExistingKeys(triples, keyLookupChunkSize)
	if err != nil {
		return nil, &StoreError{Op: "existing-key lookup", Err: err}
	}
	manufacturers, err := poRepo.ManufacturersByPair(pairs, keyLookupChunkSize)
	if err != nil {
		return nil, &StoreError{Op: "manufacturer lookup", Err: err}
	}

	insertSet := make([]entity.InspectionRecord, 0, len(records))
	for j, k := range kept {
		key := repo.CompositeKey(k.in.IARNumber, k.in.PONumber, k.in.ItemNumber)
		if _, ok := existing[key]; ok {
			res.Logs[k.pos].Result = ResultSkipped
			res.Logs[k.pos].Reason = ReasonAlreadyExists
			continue
		}
		rec := records[j]
		if m, ok := manufacturers[repo.CompositeKey(k.in.PONumber, k.in.ItemNumber)]; ok {
			rec.Manufacturer = strPtr(m)
		}
		res.Logs[k.pos].Result = ResultInserted
		insertSet = append(insertSet, rec)
	}

	inserted, err := iarRepo.BulkInsert(insertSet, insertBatchSize)
	if err != nil {
		return nil, &StoreError{Op: "bulk insert", Err: err}
	}
	res.InsertedCount = inserted

	for _, e := range res.Logs {
		if e.Result == ResultSkipped {
			res.SkippedDuplicates++
			rowsSkipped.WithLabelValues("iar", e.Reason).Inc()
		}
	}
	rowsInserted.WithLabelValues("iar").Add(float64(inserted))
	return res, nil
}

// InsertIARRow is the manual single-row insert. The manufacturer is looked up
// from the matching PO line item, never taken from the caller.
func InsertIARRow(iarRepo *repo.IARRepository, poRepo *repo.PORepository, in IARRowInput) (*entity.InspectionRecord, error) {
	if !iarRepo.HasSchema() {
		return nil, &InfrastructureError{
			Hint: "inspection_records table is missing; run `protrack db:migrate` and restart",
		}
	}
	if msgs := validateIARRow(in); len(msgs) > 0 {
		return nil, fmt.Errorf("invalid inspection record: %s", strings.Join(msgs, "; "))
	}
	exists, err := iarRepo.Exists(in.IARNumber, in.PONumber, in.ItemNumber)
	if err != nil {
		return nil, &StoreError{Op: "conflict check", Err: err}
	}
	if exists {
		return nil, &ConflictError{Key: repo.CompositeKey(in.IARNumber, in.PONumber, in.ItemNumber)}
	}

	rec, err := buildInspectionRecord(in, 1)
	if err != nil {
		return nil, err
	}
	item, err := poRepo.Get(in.PONumber, in.ItemNumber)
	if err != nil {
		return nil, &StoreError{Op: "manufacturer lookup", Err: err}
	}
	if item != nil && item.Manufacturer != nil {
		if m := strings.TrimSpace(*item.Manufacturer); m != "" {
			rec.Manufacturer = strPtr(m)
		}
	}
	if err := iarRepo.Insert(&rec); err != nil {
		return nil, &StoreError{Op: "insert", Err: err}
	}
	return &rec, nil
}

func buildInspectionRecord(in IARRowInput, row int) (entity.InspectionRecord, error) {
	rec := entity.InspectionRecord{
		IARNumber:            strings.TrimSpace(in.IARNumber),
		PONumber:             strings.TrimSpace(in.PONumber),
		ItemNumber:           strings.TrimSpace(in.ItemNumber),
		RequisitioningOffice: in.RequisitioningOffice,
		Brand:                in.Brand,
		BatchLotNumber:       in.BatchLotNumber,
	}
	if in.InspectedQuantity != nil {
		rec.InspectedQuantity = *in.InspectedQuantity
	}
	if in.DateOfInspection != nil {
		d, err := parseStrictDate(*in.DateOfInspection, "Date of Inspection", row)
		if err != nil {
			return rec, err
		}
		rec.DateOfInspection = d
	}
	if in.ExpirationDate != nil {
		d, err := parseStrictDate(*in.ExpirationDate, "Expiration Date", row)
		if err != nil {
			return rec, err
		}
		rec.ExpirationDate = datePtr(d)
	}
	return rec, nil
}
