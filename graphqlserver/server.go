package graphqlserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"protrack.GO/graphql"
	"protrack.GO/graphql/registry"
	entity "protrack.GO/model/entity/procurement"
	repo "protrack.GO/model/repository/procurement"
	reportService "protrack.GO/service/report"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements Query fields. Delegates to the report service.
type QueryResolver struct {
	db *gorm.DB
}

// POStatus mirrors report.POStatus with graphql-go field types.
type POStatus struct {
	PONumber string
	Status   string
	Items    []ItemStatus
}

type ItemStatus struct {
	PONumber          string
	ItemNumber        string
	RequiredQuantity  int32
	InspectedQuantity int32
	Status            string
}

type LineItem struct {
	PONumber          string
	ItemNo            string
	PODate            *string
	Supplier          *string
	ModeOfProcurement *string
	GenericName       *string
	BrandName         *string
	Manufacturer      *string
	AcquisitionCost   *float64
	Quantity          *int32
	TotalCost         *float64
	DeliveryStatus    *string
	BidAttempt        *int32
}

func (r *QueryResolver) PurchaseOrders(ctx context.Context) ([]POStatus, error) {
	svc, err := reportService.NewService(r.db)
	if err != nil {
		return nil, err
	}
	summary, err := svc.POStatuses()
	if err != nil {
		return nil, err
	}
	out := make([]POStatus, 0, len(summary))
	for _, po := range summary {
		out = append(out, POStatus{
			PONumber: po.PONumber,
			Status:   string(po.Status),
			Items:    mapItems(po.Items),
		})
	}
	return out, nil
}

// PoStatusArgs matches the poStatus query arguments.
type PoStatusArgs struct {
	Po   string
	Item string
}

func (r *QueryResolver) PoStatus(ctx context.Context, args PoStatusArgs) (*ItemStatus, error) {
	svc, err := reportService.NewService(r.db)
	if err != nil {
		return nil, err
	}
	st, err := svc.StatusFor(ctx, args.Po, args.Item)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	out := mapItems([]reportService.ItemStatus{*st})
	return &out[0], nil
}

// LineItemsArgs matches the lineItems query arguments.
type LineItemsArgs struct {
	Po string
}

func (r *QueryResolver) LineItems(ctx context.Context, args LineItemsArgs) ([]LineItem, error) {
	poRepo, err := repo.NewPORepository(r.db)
	if err != nil {
		return nil, err
	}
	items, err := poRepo.ListByPO(args.Po)
	if err != nil {
		return nil, err
	}
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, mapLineItem(item))
	}
	return out, nil
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func mapItems(items []reportService.ItemStatus) []ItemStatus {
	out := make([]ItemStatus, 0, len(items))
	for _, it := range items {
		out = append(out, ItemStatus{
			PONumber:          it.PONumber,
			ItemNumber:        it.ItemNumber,
			RequiredQuantity:  int32(it.RequiredQuantity),
			InspectedQuantity: int32(it.InspectedQuantity),
			Status:            string(it.Status),
		})
	}
	return out
}

func mapLineItem(item entity.POLineItem) LineItem {
	out := LineItem{
		PONumber:          item.PONumber,
		ItemNo:            item.ItemNo,
		Supplier:          item.Supplier,
		ModeOfProcurement: item.ModeOfProcurement,
		GenericName:       item.GenericName,
		BrandName:         item.BrandName,
		Manufacturer:      item.Manufacturer,
		AcquisitionCost:   item.AcquisitionCost,
		TotalCost:         item.TotalCost,
		DeliveryStatus:    item.DeliveryStatus,
	}
	if item.PODate != nil {
		out.PODate = formatDate(*item.PODate)
	}
	if item.Quantity != nil {
		q := int32(*item.Quantity)
		out.Quantity = &q
	}
	if item.BidAttempt != nil {
		b := int32(*item.BidAttempt)
		out.BidAttempt = &b
	}
	return out
}

func formatDate(d datatypes.Date) *string {
	s := time.Time(d).Format("2006-01-02")
	return &s
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	schema, err := gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	return schema, nil
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
