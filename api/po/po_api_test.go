package po

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	entity "protrack.GO/model/entity/procurement"
)

func poServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("po_api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(&entity.POLineItem{}, &entity.InspectionRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := echo.New()
	RegisterPORoutes(e.Group("/api"), db)
	return e, db
}

func postJSON(t *testing.T, e *echo.Echo, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUploadCommit(t *testing.T) {
	e, _ := poServer(t)

	body := map[string]interface{}{
		"rows": []map[string]interface{}{
			{"po_number": "PO-1", "item_no": "1", "quantity": 100},
			{"po_number": "PO-1", "item_no": "1"},
			{"po_number": "PO-1", "item_no": "2"},
		},
	}
	rec := postJSON(t, e, "/api/po/upload/commit", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res struct {
		InsertedCount     int64 `json:"inserted_count"`
		TotalReceived     int   `json:"total_received"`
		SkippedDuplicates int   `json:"skipped_duplicates"`
		Logs              []struct {
			Result string `json:"result"`
			Reason string `json:"reason"`
		} `json:"logs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.InsertedCount != 2 || res.SkippedDuplicates != 1 || res.TotalReceived != 3 {
		t.Errorf("res = %+v, want 2 inserted / 1 skipped / 3 received", res)
	}
	if len(res.Logs) != 3 {
		t.Errorf("logs = %d, want 3", len(res.Logs))
	}
}

func TestUploadCommit_BadDate400(t *testing.T) {
	e, _ := poServer(t)
	body := map[string]interface{}{
		"rows": []map[string]interface{}{
			{"po_number": "PO-1", "item_no": "1", "po_date": "02/30/2024"},
		},
	}
	rec := postJSON(t, e, "/api/po/upload/commit", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PO Date") {
		t.Errorf("body = %s, want field name", rec.Body.String())
	}
}

func TestUploadCommit_StoreFailure500(t *testing.T) {
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("po_api_notable_%d.db", time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// No migration: every store access fails.
	e := echo.New()
	RegisterPORoutes(e.Group("/api"), db)

	body := map[string]interface{}{
		"rows": []map[string]interface{}{{"po_number": "PO-1", "item_no": "1"}},
	}
	rec := postJSON(t, e, "/api/po/upload/commit", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body = %s; want 500", rec.Code, rec.Body.String())
	}
}

func TestUploadCommit_EmptyRows400(t *testing.T) {
	e, _ := poServer(t)
	rec := postJSON(t, e, "/api/po/upload/commit", map[string]interface{}{"rows": []interface{}{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestManualInsert_Conflict409(t *testing.T) {
	e, _ := poServer(t)
	row := map[string]interface{}{"po_number": "PO-1", "item_no": "1"}

	if rec := postJSON(t, e, "/api/po", row); rec.Code != http.StatusCreated {
		t.Fatalf("first insert status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec := postJSON(t, e, "/api/po", row); rec.Code != http.StatusConflict {
		t.Fatalf("second insert status = %d, want 409", rec.Code)
	}
}

func TestDistinctLists(t *testing.T) {
	e, _ := poServer(t)
	supplier := "Acme Pharma"
	postJSON(t, e, "/api/po", map[string]interface{}{"po_number": "PO-7", "item_no": "1", "supplier": supplier})

	req := httptest.NewRequest(http.MethodGet, "/api/po/suppliers", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []string
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	found := false
	for _, s := range list {
		if s == supplier {
			found = true
		}
	}
	if !found {
		t.Errorf("suppliers = %v, want to include %q", list, supplier)
	}
}

func TestSearch_SQLFallback(t *testing.T) {
	e, _ := poServer(t)
	generic := "Paracetamol 500mg"
	postJSON(t, e, "/api/po", map[string]interface{}{"po_number": "PO-8", "item_no": "1", "generic_name": generic})

	req := httptest.NewRequest(http.MethodGet, "/api/po/search?q=Paracetamol", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Items  []entity.POLineItem `json:"items"`
		Source string              `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Source != "sql" {
		t.Errorf("source = %q, want sql (no elasticsearch in tests)", res.Source)
	}
	if len(res.Items) != 1 || res.Items[0].PONumber != "PO-8" {
		t.Errorf("items = %+v, want PO-8", res.Items)
	}
}

func TestSearch_MissingQuery400(t *testing.T) {
	e, _ := poServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/po/search", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadParse(t *testing.T) {
	e, _ := poServer(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]interface{}{
		{"PO Number", "Item No", "Qty"},
		{"PO-1", "1", "100"},
		{"", "2", "50"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/po/upload/parse", bytes.NewReader(buf.Bytes()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res struct {
		ValidRowsCount int `json:"valid_rows_count"`
		Errors         []struct {
			Index int `json:"index"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ValidRowsCount != 1 || len(res.Errors) != 1 {
		t.Errorf("res = %+v, want 1 valid row and 1 error", res)
	}
}

func TestUploadParse_EmptyBody400(t *testing.T) {
	e, _ := poServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/po/upload/parse", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
