package report

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"protrack.GO/config"
	"protrack.GO/core/cache"
	entity "protrack.GO/model/entity/procurement"
	repo "protrack.GO/model/repository/procurement"
)

// ItemStatus is the derived per-line summary used by the dashboard.
type ItemStatus struct {
	PONumber          string `json:"po_number"`
	ItemNumber        string `json:"item_number"`
	RequiredQuantity  int    `json:"required_quantity"`
	InspectedQuantity int    `json:"inspected_quantity"`
	Status            Status `json:"status"`
}

// POStatus is the per-purchase-order rollup.
type POStatus struct {
	PONumber string       `json:"po_number"`
	Status   Status       `json:"status"`
	Items    []ItemStatus `json:"items"`
}

const (
	summaryCacheKey = "protrack:summary:po"
	summaryCacheTTL = 300 // seconds
)

type Service struct {
	poRepo  *repo.PORepository
	iarRepo *repo.IARRepository
}

func NewService(db *gorm.DB) (*Service, error) {
	poRepo, err := repo.NewPORepository(db)
	if err != nil {
		return nil, err
	}
	iarRepo, err := repo.NewIARRepository(db)
	if err != nil {
		return nil, err
	}
	return &Service{poRepo: poRepo, iarRepo: iarRepo}, nil
}

// ItemStatuses returns derived statuses for every line item of one PO, or of
// the whole store when poNumber is empty. Inspected-so-far is the SUM over
// all inspection records sharing the pair.
func (s *Service) ItemStatuses(poNumber string) ([]ItemStatus, error) {
	var (
		items []itemRow
		err   error
	)
	items, err = s.lineItems(poNumber)
	if err != nil {
		return nil, err
	}

	sums, err := s.iarRepo.SumByItem(poNumber)
	if err != nil {
		return nil, err
	}
	inspected := make(map[string]int, len(sums))
	for _, sum := range sums {
		inspected[repo.CompositeKey(sum.PONumber, sum.ItemNumber)] = sum.Total
	}

	out := make([]ItemStatus, 0, len(items))
	for _, it := range items {
		got := inspected[repo.CompositeKey(it.PONumber, it.ItemNo)]
		out = append(out, ItemStatus{
			PONumber:          it.PONumber,
			ItemNumber:        it.ItemNo,
			RequiredQuantity:  it.Required,
			InspectedQuantity: got,
			Status:            DeriveStatus(it.Required, got),
		})
	}
	return out, nil
}

// POStatuses returns the per-PO rollup for the whole store, cached in Redis
// when configured (fallback: in-process cache).
func (s *Service) POStatuses() ([]POStatus, error) {
	if cached, ok := s.cachedSummary(); ok {
		return cached, nil
	}
	summary, err := s.buildSummary()
	if err != nil {
		return nil, err
	}
	s.storeSummary(summary)
	return summary, nil
}

// WarmSummary recomputes and caches the PO rollup. Used by the summary cron job.
func (s *Service) WarmSummary() error {
	summary, err := s.buildSummary()
	if err != nil {
		return err
	}
	s.storeSummary(summary)
	return nil
}

func (s *Service) buildSummary() ([]POStatus, error) {
	items, err := s.ItemStatuses("")
	if err != nil {
		return nil, err
	}

	var order []string
	grouped := make(map[string][]ItemStatus)
	for _, it := range items {
		if _, ok := grouped[it.PONumber]; !ok {
			order = append(order, it.PONumber)
		}
		grouped[it.PONumber] = append(grouped[it.PONumber], it)
	}

	out := make([]POStatus, 0, len(order))
	for _, po := range order {
		out = append(out, POStatus{
			PONumber: po,
			Status:   RollupStatus(grouped[po]),
			Items:    grouped[po],
		})
	}
	return out, nil
}

// StatusFor returns the point status for one (poNumber, itemNumber) pair,
// fetching required and inspected quantities concurrently. Returns nil when
// no such line item exists.
func (s *Service) StatusFor(ctx context.Context, poNumber, itemNumber string) (*ItemStatus, error) {
	var (
		required  *int
		found     bool
		inspected int
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := s.poRepo.Get(poNumber, itemNumber)
		if err != nil {
			return err
		}
		if item != nil {
			found = true
			required = item.Quantity
		}
		return nil
	})
	g.Go(func() error {
		var err error
		inspected, err = s.iarRepo.SumFor(poNumber, itemNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	req := 0
	if required != nil {
		req = *required
	}
	return &ItemStatus{
		PONumber:          poNumber,
		ItemNumber:        itemNumber,
		RequiredQuantity:  req,
		InspectedQuantity: inspected,
		Status:            DeriveStatus(req, inspected),
	}, nil
}

type itemRow struct {
	PONumber string
	ItemNo   string
	Required int
}

func (s *Service) lineItems(poNumber string) ([]itemRow, error) {
	var (
		list []entity.POLineItem
		err  error
	)
	if poNumber == "" {
		list, err = s.poRepo.ListAll()
	} else {
		list, err = s.poRepo.ListByPO(poNumber)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]itemRow, 0, len(list))
	for _, item := range list {
		row := itemRow{PONumber: item.PONumber, ItemNo: item.ItemNo}
		if item.Quantity != nil {
			row.Required = *item.Quantity
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) cachedSummary() ([]POStatus, bool) {
	if config.RedisClient != nil {
		data, err := config.RedisClient.Get(config.RedisCtx(), summaryCacheKey).Bytes()
		if err == nil {
			var out []POStatus
			if json.Unmarshal(data, &out) == nil {
				return out, true
			}
		}
		return nil, false
	}
	if v, ok := cache.GetInstance().Get(summaryCacheKey); ok {
		if out, isSummary := v.([]POStatus); isSummary {
			return out, true
		}
	}
	return nil, false
}

func (s *Service) storeSummary(summary []POStatus) {
	if config.RedisClient != nil {
		if data, err := json.Marshal(summary); err == nil {
			config.RedisClient.Set(config.RedisCtx(), summaryCacheKey, data, summaryCacheTTL*time.Second)
		}
		return
	}
	cache.GetInstance().Set(summaryCacheKey, summary, summaryCacheTTL, []string{repo.ListCacheTag})
}
