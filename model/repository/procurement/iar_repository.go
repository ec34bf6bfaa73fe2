package procurement

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"protrack.GO/core/cache"
	entity "protrack.GO/model/entity/procurement"
)

type IARRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewIARRepository(db *gorm.DB) (*IARRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &IARRepository{db: db, sqlDB: sqlDB}, nil
}

// HasSchema reports whether the inspection_records table exists. Checked once
// at startup (fail fast) and again by commit handlers before writing.
func (r *IARRepository) HasSchema() bool {
	return r.db.Migrator().HasTable(&entity.InspectionRecord{})
}

// FindExistingKeys returns the subset of (iarNumber, poNumber, itemNumber)
// triples already stored, keyed by CompositeKey. Probes are chunked by IAR
// number; the full triple is matched in memory.
func (r *IARRepository) FindExistingKeys(triples [][3]string, chunkSize int) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(triples) == 0 {
		return existing, nil
	}

	wanted := make(map[string]struct{}, len(triples))
	var iarNumbers []string
	seenIAR := make(map[string]struct{})
	for _, t := range triples {
		wanted[CompositeKey(t[0], t[1], t[2])] = struct{}{}
		iar := strings.TrimSpace(t[0])
		if _, ok := seenIAR[iar]; !ok {
			seenIAR[iar] = struct{}{}
			iarNumbers = append(iarNumbers, iar)
		}
	}

	for start := 0; start < len(iarNumbers); start += chunkSize {
		end := start + chunkSize
		if end > len(iarNumbers) {
			end = len(iarNumbers)
		}
		var rows []entity.InspectionRecord
		err := r.db.Select("iar_number", "po_number", "item_number").
			Where("iar_number IN ?", iarNumbers[start:end]).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			key := CompositeKey(row.IARNumber, row.PONumber, row.ItemNumber)
			if _, ok := wanted[key]; ok {
				existing[key] = struct{}{}
			}
		}
	}
	return existing, nil
}

// BulkInsert writes records with a duplicate-tolerant upsert clause and
// returns the storage-reported insert count.
func (r *IARRepository) BulkInsert(records []entity.InspectionRecord, batchSize int) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&records, batchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	cache.GetInstance().DeleteByTag(ListCacheTag)
	return res.RowsAffected, nil
}

// Exists reports whether a record with the composite key is stored.
func (r *IARRepository) Exists(iarNumber, poNumber, itemNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.InspectionRecord{}).
		Where("iar_number = ? AND po_number = ? AND item_number = ?",
			strings.TrimSpace(iarNumber), strings.TrimSpace(poNumber), strings.TrimSpace(itemNumber)).
		Count(&count).Error
	return count > 0, err
}

// Insert writes a single inspection record and invalidates cached rollups.
func (r *IARRepository) Insert(rec *entity.InspectionRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return err
	}
	cache.GetInstance().DeleteByTag(ListCacheTag)
	return nil
}

// ListByPO returns all inspection records against one purchase order.
func (r *IARRepository) ListByPO(poNumber string) ([]entity.InspectionRecord, error) {
	var recs []entity.InspectionRecord
	err := r.db.Where("po_number = ?", strings.TrimSpace(poNumber)).
		Order("item_number, iar_number").Find(&recs).Error
	return recs, err
}

// ItemSum is the inspected-so-far aggregate for one (poNumber, itemNumber) pair.
type ItemSum struct {
	PONumber   string `gorm:"column:po_number"`
	ItemNumber string `gorm:"column:item_number"`
	Total      int    `gorm:"column:total"`
}

// SumByItem aggregates inspected quantity per (po_number, item_number).
// poNumber == "" aggregates the whole table.
func (r *IARRepository) SumByItem(poNumber string) ([]ItemSum, error) {
	q := r.db.Model(&entity.InspectionRecord{}).
		Select("po_number, item_number, COALESCE(SUM(inspected_quantity), 0) AS total").
		Group("po_number, item_number")
	if po := strings.TrimSpace(poNumber); po != "" {
		q = q.Where("po_number = ?", po)
	}
	var sums []ItemSum
	err := q.Order("po_number, item_number").Find(&sums).Error
	return sums, err
}

// SumFor returns total inspected quantity for one pair.
// Uses raw SQL for minimal overhead.
func (r *IARRepository) SumFor(poNumber, itemNumber string) (int, error) {
	const query = `SELECT COALESCE(SUM(inspected_quantity), 0) FROM inspection_records WHERE po_number = ? AND item_number = ?`
	var total int
	err := r.sqlDB.QueryRow(query, strings.TrimSpace(poNumber), strings.TrimSpace(itemNumber)).Scan(&total)
	return total, err
}
