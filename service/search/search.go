package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	entity "protrack.GO/model/entity/procurement"
	repo "protrack.GO/model/repository/procurement"
)

var (
	serviceInstance *Service
	serviceOnce     sync.Once
)

// GetService returns the singleton search Service.
func GetService() *Service {
	serviceOnce.Do(func() {
		serviceInstance = NewService()
	})
	return serviceInstance
}

// Service indexes PO line items in Elasticsearch. Degrades gracefully: a nil
// client means search falls back to SQL LIKE via the repository.
type Service struct {
	client *elasticsearch.Client
	index  string
}

func NewService() *Service {
	host := os.Getenv("ELASTICSEARCH_HOST")
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "protrack_po_line_items"
	}
	if host == "" {
		return &Service{index: index}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &Service{index: index}
	}
	return &Service{client: client, index: index}
}

// Available reports whether an Elasticsearch client is configured.
func (s *Service) Available() bool { return s.client != nil }

type lineItemDoc struct {
	ID          int64  `json:"id"`
	PONumber    string `json:"po_number"`
	ItemNo      string `json:"item_no"`
	Supplier    string `json:"supplier,omitempty"`
	GenericName string `json:"generic_name,omitempty"`
	BrandName   string `json:"brand_name,omitempty"`
}

// IndexLineItems bulk-indexes the given line items. No-op without a client.
func (s *Service) IndexLineItems(ctx context.Context, items []entity.POLineItem) error {
	if s.client == nil || len(items) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, item := range items {
		meta := map[string]map[string]string{"index": {"_index": s.index, "_id": strconv.FormatInt(item.ID, 10)}}
		doc := lineItemDoc{
			ID:       item.ID,
			PONumber: item.PONumber,
			ItemNo:   item.ItemNo,
		}
		if item.Supplier != nil {
			doc.Supplier = *item.Supplier
		}
		if item.GenericName != nil {
			doc.GenericName = *item.GenericName
		}
		if item.BrandName != nil {
			doc.BrandName = *item.BrandName
		}
		metaBytes, _ := json.Marshal(meta)
		docBytes, _ := json.Marshal(doc)
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()), s.client.Bulk.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk error: %s", res.String())
	}
	return nil
}

// Search queries the line-item index and resolves hits through the
// repository. When Elasticsearch is unavailable the caller should use the
// repository's SQL fallback instead.
func (s *Service) Search(ctx context.Context, poRepo *repo.PORepository, query string, limit int) ([]entity.POLineItem, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"generic_name^3", "brand_name^2", "po_number^2", "supplier"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source lineItemDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	items := make([]entity.POLineItem, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		item, err := poRepo.Get(hit.Source.PONumber, hit.Source.ItemNo)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}
