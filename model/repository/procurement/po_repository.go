package procurement

import (
	"database/sql"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"protrack.GO/core/cache"
	entity "protrack.GO/model/entity/procurement"
)

// CompositeKey joins trimmed key fields into the canonical lookup/dedup key.
func CompositeKey(fields ...string) string {
	trimmed := make([]string, len(fields))
	for i, f := range fields {
		trimmed[i] = strings.TrimSpace(f)
	}
	return strings.Join(trimmed, "|")
}

// ListCacheTag groups cached distinct-value projections for invalidation on writes.
const ListCacheTag = "po_lists"

type PORepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewPORepository(db *gorm.DB) (*PORepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &PORepository{db: db, sqlDB: sqlDB}, nil
}

// FindExistingKeys returns the subset of (poNumber, itemNo) pairs already
// stored, keyed by CompositeKey. Probes are chunked by PO number to bound
// query size; the full pair is matched in memory.
func (r *PORepository) FindExistingKeys(pairs [][2]string, chunkSize int) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(pairs) == 0 {
		return existing, nil
	}

	wanted := make(map[string]struct{}, len(pairs))
	var poNumbers []string
	seenPO := make(map[string]struct{})
	for _, p := range pairs {
		wanted[CompositeKey(p[0], p[1])] = struct{}{}
		po := strings.TrimSpace(p[0])
		if _, ok := seenPO[po]; !ok {
			seenPO[po] = struct{}{}
			poNumbers = append(poNumbers, po)
		}
	}

	for start := 0; start < len(poNumbers); start += chunkSize {
		end := start + chunkSize
		if end > len(poNumbers) {
			end = len(poNumbers)
		}
		var rows []entity.POLineItem
		err := r.db.Select("po_number", "item_no").
			Where("po_number IN ?", poNumbers[start:end]).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			key := CompositeKey(row.PONumber, row.ItemNo)
			if _, ok := wanted[key]; ok {
				existing[key] = struct{}{}
			}
		}
	}
	return existing, nil
}

// BulkInsert writes items with a duplicate-tolerant upsert clause and returns
// the storage-reported insert count (the source of truth for commit results).
func (r *PORepository) BulkInsert(items []entity.POLineItem, batchSize int) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&items, batchSize)
	if res.Error != nil {
		return 0, res.Error
	}
	cache.GetInstance().DeleteByTag(ListCacheTag)
	return res.RowsAffected, nil
}

// Exists reports whether a line item with the composite key is stored.
func (r *PORepository) Exists(poNumber, itemNo string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.POLineItem{}).
		Where("po_number = ? AND item_no = ?", strings.TrimSpace(poNumber), strings.TrimSpace(itemNo)).
		Count(&count).Error
	return count > 0, err
}

// Insert writes a single line item and invalidates the list caches.
func (r *PORepository) Insert(item *entity.POLineItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return err
	}
	cache.GetInstance().DeleteByTag(ListCacheTag)
	return nil
}

// ManufacturersByPair batch-resolves manufacturers for the given
// (poNumber, itemNumber) pairs. Values are trimmed; blanks are omitted.
func (r *PORepository) ManufacturersByPair(pairs [][2]string, chunkSize int) (map[string]string, error) {
	out := make(map[string]string)
	if len(pairs) == 0 {
		return out, nil
	}

	wanted := make(map[string]struct{}, len(pairs))
	var poNumbers []string
	seenPO := make(map[string]struct{})
	for _, p := range pairs {
		wanted[CompositeKey(p[0], p[1])] = struct{}{}
		po := strings.TrimSpace(p[0])
		if _, ok := seenPO[po]; !ok {
			seenPO[po] = struct{}{}
			poNumbers = append(poNumbers, po)
		}
	}

	for start := 0; start < len(poNumbers); start += chunkSize {
		end := start + chunkSize
		if end > len(poNumbers) {
			end = len(poNumbers)
		}
		var rows []entity.POLineItem
		err := r.db.Select("po_number", "item_no", "manufacturer").
			Where("po_number IN ?", poNumbers[start:end]).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			key := CompositeKey(row.PONumber, row.ItemNo)
			if _, ok := wanted[key]; !ok {
				continue
			}
			if row.Manufacturer == nil {
				continue
			}
			if m := strings.TrimSpace(*row.Manufacturer); m != "" {
				out[key] = m
			}
		}
	}
	return out, nil
}

// Get returns the line item for a composite key, or nil when absent.
func (r *PORepository) Get(poNumber, itemNo string) (*entity.POLineItem, error) {
	var item entity.POLineItem
	err := r.db.Where("po_number = ? AND item_no = ?", strings.TrimSpace(poNumber), strings.TrimSpace(itemNo)).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByPO returns all line items of one purchase order.
func (r *PORepository) ListByPO(poNumber string) ([]entity.POLineItem, error) {
	var items []entity.POLineItem
	err := r.db.Where("po_number = ?", strings.TrimSpace(poNumber)).
		Order("item_no").Find(&items).Error
	return items, err
}

// ListAll returns every stored line item, ordered by key.
func (r *PORepository) ListAll() ([]entity.POLineItem, error) {
	var items []entity.POLineItem
	err := r.db.Order("po_number, item_no").Find(&items).Error
	return items, err
}

// SearchLineItems is the SQL fallback for line-item search: LIKE over the
// text columns, capped at limit.
func (r *PORepository) SearchLineItems(query string, limit int) ([]entity.POLineItem, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	var items []entity.POLineItem
	err := r.db.
		Where("po_number LIKE ? OR supplier LIKE ? OR generic_name LIKE ? OR brand_name LIKE ?",
			like, like, like, like).
		Limit(limit).Order("po_number, item_no").Find(&items).Error
	return items, err
}

// DistinctPONumbers returns sorted, deduplicated, trimmed, non-empty PO numbers.
func (r *PORepository) DistinctPONumbers() ([]string, error) {
	return r.distinctColumn("po_number")
}

// DistinctSuppliers returns sorted, deduplicated, trimmed, non-empty suppliers.
func (r *PORepository) DistinctSuppliers() ([]string, error) {
	return r.distinctColumn("supplier")
}

// DistinctModes returns sorted, deduplicated, trimmed, non-empty procurement modes.
func (r *PORepository) DistinctModes() ([]string, error) {
	return r.distinctColumn("mode_of_procurement")
}

func (r *PORepository) distinctColumn(column string) ([]string, error) {
	c := cache.GetInstance()
	if v, ok := c.GetN("po_distinct", column); ok {
		if list, isList := v.([]string); isList {
			return list, nil
		}
	}

	var raw []sql.NullString
	err := r.db.Model(&entity.POLineItem{}).Distinct(column).Pluck(column, &raw).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if !v.Valid {
			continue
		}
		s := strings.TrimSpace(v.String)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)

	c.SetN([]interface{}{"po_distinct", column}, out, 300, []string{ListCacheTag})
	return out, nil
}
