package reorder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"stoka/config"
	"stoka/database"
	"stoka/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(database.Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if err := database.SeedShelves(db); err != nil {
		t.Fatalf("seed shelves: %v", err)
	}
	return db
}

// seedReorderable sets up two out-of-stock products on a checked shelf.
func seedReorderable(t *testing.T, db *sqlx.DB) {
	t.Helper()
	for _, p := range []model.Product{
		{ProductID: 1, ProductName: "Zinc", ShelfNumber: 3, InStock: false},
		{ProductID: 2, ProductName: "Aspirin", ShelfNumber: 3, InStock: false},
		{ProductID: 3, ProductName: "Bandage", ShelfNumber: 3, InStock: true},
	} {
		if err := database.InsertProduct(db, p); err != nil {
			t.Fatalf("insert product: %v", err)
		}
	}
	if err := database.SetShelfChecked(db, 3, true); err != nil {
		t.Fatalf("check shelf: %v", err)
	}
}

func countSnapshots(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	snapshots, err := database.ListSnapshots(db)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	return len(snapshots)
}

func TestEncodeNamesJSON(t *testing.T) {
	got, err := encodeNamesJSON([]string{"Aspirin", "Zinc"})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["Aspirin","Zinc"]` {
		t.Errorf("json = %s", got)
	}

	got, err = encodeNamesJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[]" {
		t.Errorf("empty json = %s, want []", got)
	}
}

func TestEncodeNamesTxt(t *testing.T) {
	got := encodeNamesTxt([]string{"Aspirin", "Zinc"})
	if string(got) != "Aspirin\nZinc\n" {
		t.Errorf("txt = %q", got)
	}
	if got := encodeNamesTxt(nil); len(got) != 0 {
		t.Errorf("empty txt = %q", got)
	}
}

func TestEncodeCSV(t *testing.T) {
	items := []model.ReorderItem{
		{ProductID: 2, ProductName: "Aspirin", ShelfNumber: 3},
	}
	got, err := encodeItemsCSV(items)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "product_id,product_name,shelf_number\n2,Aspirin,3\n" {
		t.Errorf("items csv = %q", got)
	}

	got, err = encodeNamesCSV([]string{"Aspirin"})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "product_name\nAspirin\n" {
		t.Errorf("names csv = %q", got)
	}
}

func TestNormalizeFormat(t *testing.T) {
	for raw, want := range map[string]string{
		"txt": "txt", "csv": "csv", "json": "json",
		"": "txt", "xlsx": "txt", "TXT": "txt",
	} {
		if got := normalizeFormat(raw); got != want {
			t.Errorf("normalizeFormat(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestGetReorderListHandler(t *testing.T) {
	db := newTestDB(t)
	seedReorderable(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/reorder", nil)
	rec := httptest.NewRecorder()
	GetReorderListHandler(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var items []model.ReorderItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].ProductName != "Aspirin" || items[1].ProductName != "Zinc" {
		t.Errorf("unexpected items: %+v", items)
	}

	// Viewing the list must never save a snapshot.
	if n := countSnapshots(t, db); n != 0 {
		t.Errorf("view created %d snapshots", n)
	}
}

func TestGetReorderListHandler_Empty(t *testing.T) {
	db := newTestDB(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reorder", nil)
	rec := httptest.NewRecorder()
	GetReorderListHandler(db)(rec, req)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty list body = %q, want []", got)
	}
}

func TestExportReorderListHandler_SavesByDefault(t *testing.T) {
	db := newTestDB(t)
	seedReorderable(t, db)
	config.SetConfig(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/reorder/export?format=json", nil)
	rec := httptest.NewRecorder()
	ExportReorderListHandler(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != `["Aspirin","Zinc"]` {
		t.Errorf("body = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "reorder_list.json") {
		t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	snapshots, err := database.ListSnapshots(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snapshots))
	}
	if len(snapshots[0].ProductNames) != 2 || snapshots[0].ProductNames[0] != "Aspirin" {
		t.Errorf("snapshot names = %v", snapshots[0].ProductNames)
	}
}

func TestExportReorderListHandler_SaveOverrides(t *testing.T) {
	db := newTestDB(t)
	seedReorderable(t, db)

	// Explicit save=0 wins over the default.
	config.SetConfig(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/reorder/export?save=0", nil)
	rec := httptest.NewRecorder()
	ExportReorderListHandler(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := countSnapshots(t, db); n != 0 {
		t.Errorf("save=0 created %d snapshots", n)
	}

	// Config can disable saving, save=1 turns it back on.
	config.SetConfig(config.Config{DisableExportSnapshot: true})
	req = httptest.NewRequest(http.MethodGet, "/api/reorder/export", nil)
	rec = httptest.NewRecorder()
	ExportReorderListHandler(db)(rec, req)
	if n := countSnapshots(t, db); n != 0 {
		t.Errorf("disabled config still created %d snapshots", n)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/reorder/export?save=1", nil)
	rec = httptest.NewRecorder()
	ExportReorderListHandler(db)(rec, req)
	if n := countSnapshots(t, db); n != 1 {
		t.Errorf("save=1 produced %d snapshots, want 1", n)
	}
	config.SetConfig(config.Config{})
}

func TestExportReorderListHandler_TxtFallback(t *testing.T) {
	db := newTestDB(t)
	seedReorderable(t, db)
	config.SetConfig(config.Config{DisableExportSnapshot: true})
	defer config.SetConfig(config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/reorder/export?format=xlsx", nil)
	rec := httptest.NewRecorder()
	ExportReorderListHandler(db)(rec, req)
	if got := rec.Body.String(); got != "Aspirin\nZinc\n" {
		t.Errorf("body = %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "reorder_list.txt") {
		t.Errorf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestSaveReorderListHandler(t *testing.T) {
	db := newTestDB(t)
	seedReorderable(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/reorder/save", nil)
	rec := httptest.NewRecorder()
	SaveReorderListHandler(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		ID     int    `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	snap, err := database.GetSnapshotByID(db, resp.ID)
	if err != nil {
		t.Fatalf("saved snapshot missing: %v", err)
	}
	if len(snap.ProductNames) != 2 {
		t.Errorf("snapshot names = %v", snap.ProductNames)
	}
}

func TestDownloadSnapshotHandler(t *testing.T) {
	db := newTestDB(t)
	id, err := database.InsertSnapshot(db, "2026-08-31 10:00:00", []string{"Aspirin", "Zinc"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reorder/lists/download/"+strconv.Itoa(id)+"?format=csv", nil)
	rec := httptest.NewRecorder()
	DownloadSnapshotHandler(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// Snapshots only carry names, so the CSV has one column.
	if got := rec.Body.String(); got != "product_name\nAspirin\nZinc\n" {
		t.Errorf("body = %q", got)
	}

	// Downloading a saved list must not save another one.
	if n := countSnapshots(t, db); n != 1 {
		t.Errorf("download changed snapshot count to %d", n)
	}
}

func TestDownloadSnapshotHandler_NotFound(t *testing.T) {
	db := newTestDB(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reorder/lists/download/99", nil)
	rec := httptest.NewRecorder()
	DownloadSnapshotHandler(db)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteSnapshotHandler(t *testing.T) {
	db := newTestDB(t)
	id, err := database.InsertSnapshot(db, "2026-08-31 10:00:00", []string{"Aspirin"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reorder/lists/delete/"+strconv.Itoa(id), nil)
	rec := httptest.NewRecorder()
	DeleteSnapshotHandler(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := countSnapshots(t, db); n != 0 {
		t.Errorf("snapshot still present, count = %d", n)
	}

	rec = httptest.NewRecorder()
	DeleteSnapshotHandler(db)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", rec.Code)
	}
}
