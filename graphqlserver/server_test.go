package graphqlserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"protrack.GO/core/cache"
	entity "protrack.GO/model/entity/procurement"
)

func gqlDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("gql_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.POLineItem{}, &entity.InspectionRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cache.GetInstance().Delete("protrack:summary:po")
	return db
}

func TestNewSchema_Parses(t *testing.T) {
	if _, err := NewSchema(gqlDB(t)); err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
}

func TestQuery_PoStatus(t *testing.T) {
	db := gqlDB(t)
	qty := 100
	db.Create(&entity.POLineItem{PONumber: "PO-1", ItemNo: "1", Quantity: &qty})
	db.Create(&entity.InspectionRecord{
		IARNumber:         "IAR-1",
		PONumber:          "PO-1",
		ItemNumber:        "1",
		DateOfInspection:  datatypes.Date(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		InspectedQuantity: 40,
	})

	schema, err := NewSchema(db)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	query := `{ poStatus(po: "PO-1", item: "1") { status requiredQuantity inspectedQuantity } }`
	res := schema.Exec(context.Background(), query, "", nil)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}

	var data struct {
		PoStatus struct {
			Status            string `json:"status"`
			RequiredQuantity  int    `json:"requiredQuantity"`
			InspectedQuantity int    `json:"inspectedQuantity"`
		} `json:"poStatus"`
	}
	if err := json.Unmarshal(res.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.PoStatus.Status != "Partial" || data.PoStatus.InspectedQuantity != 40 {
		t.Errorf("poStatus = %+v, want Partial/40", data.PoStatus)
	}
}

func TestQuery_PurchaseOrders(t *testing.T) {
	db := gqlDB(t)
	qty := 10
	db.Create(&entity.POLineItem{PONumber: "PO-1", ItemNo: "1", Quantity: &qty})

	schema, err := NewSchema(db)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	res := schema.Exec(context.Background(), `{ purchaseOrders { poNumber status items { itemNumber } } }`, "", nil)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}

	var data struct {
		PurchaseOrders []struct {
			PONumber string `json:"poNumber"`
			Status   string `json:"status"`
		} `json:"purchaseOrders"`
	}
	if err := json.Unmarshal(res.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(data.PurchaseOrders) != 1 || data.PurchaseOrders[0].Status != "NotDelivered" {
		t.Errorf("purchaseOrders = %+v, want one NotDelivered PO", data.PurchaseOrders)
	}
}

func TestQuery_LineItems(t *testing.T) {
	db := gqlDB(t)
	supplier := "Acme Pharma"
	db.Create(&entity.POLineItem{PONumber: "PO-1", ItemNo: "1", Supplier: &supplier})

	schema, err := NewSchema(db)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	res := schema.Exec(context.Background(), `{ lineItems(po: "PO-1") { itemNo supplier } }`, "", nil)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}

	var data struct {
		LineItems []struct {
			ItemNo   string  `json:"itemNo"`
			Supplier *string `json:"supplier"`
		} `json:"lineItems"`
	}
	if err := json.Unmarshal(res.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(data.LineItems) != 1 || data.LineItems[0].Supplier == nil || *data.LineItems[0].Supplier != supplier {
		t.Errorf("lineItems = %+v, want supplier %q", data.LineItems, supplier)
	}
}
