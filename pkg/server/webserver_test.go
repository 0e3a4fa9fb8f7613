package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matst80/slask-grid/pkg/dataview"
	"github.com/matst80/slask-grid/pkg/types"
)

func testServer(t *testing.T) *WebServer {
	t.Helper()
	columns := []*types.Column{
		{Id: "name", Field: "name", Type: types.FieldText, Sortable: true, Filterable: true},
		{Id: "price", Field: "price", Type: types.FieldFloat, Sortable: true, Filterable: true},
	}
	view := dataview.NewView("products", columns, dataview.Options{EnableSorting: true, EnableFiltering: true})
	view.SetRows([]types.Row{
		{"id": 1, "name": "mouse", "price": 29.0},
		{"id": 2, "name": "keyboard", "price": 79.0},
		{"id": 3, "name": "monitor", "price": 249.0},
	})
	registry := dataview.NewRegistry()
	registry.Register(view)
	return &WebServer{Registry: registry, Auth: &MockAuth{}}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) *GridResponse {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	response := &GridResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), response); err != nil {
		t.Fatalf("Expected valid json, got %v", err)
	}
	return response
}

func TestGetGridSorted(t *testing.T) {
	mux := testServer(t).ClientHandler()
	req := httptest.NewRequest("GET", "/grid/products?sort=price:desc", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	response := decodeResponse(t, rec)
	if response.TotalHits != 3 {
		t.Errorf("Expected 3 hits, got %d", response.TotalHits)
	}
	if response.Rows[0]["name"] != "monitor" {
		t.Errorf("Expected monitor first, got %v", response.Rows[0])
	}
	if len(response.Sort) != 1 || response.Sort[0].ColumnId != "price" {
		t.Errorf("Expected sort state echoed, got %v", response.Sort)
	}
}

func TestGetGridFiltered(t *testing.T) {
	mux := testServer(t).ClientHandler()
	req := httptest.NewRequest("GET", "/grid/products?filter=price:gt:50", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	response := decodeResponse(t, rec)
	if response.TotalHits != 2 {
		t.Errorf("Expected 2 hits, got %d", response.TotalHits)
	}
	for _, row := range response.Rows {
		if row["name"] == "mouse" {
			t.Errorf("Expected mouse filtered out, got %v", response.Rows)
		}
	}
}

func TestGetGridPaged(t *testing.T) {
	mux := testServer(t).ClientHandler()
	req := httptest.NewRequest("GET", "/grid/products?size=2&page=1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	response := decodeResponse(t, rec)
	if response.TotalHits != 3 {
		t.Errorf("Expected 3 hits, got %d", response.TotalHits)
	}
	if len(response.Rows) != 1 {
		t.Errorf("Expected 1 row on last page, got %d", len(response.Rows))
	}
	if response.Page != 1 || response.PageSize != 2 {
		t.Errorf("Expected paging echoed, got %d/%d", response.Page, response.PageSize)
	}
}

func TestGetGridUnknown(t *testing.T) {
	mux := testServer(t).ClientHandler()
	req := httptest.NewRequest("GET", "/grid/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestApplyAndClearSort(t *testing.T) {
	ws := testServer(t)
	mux := ws.ClientHandler()

	req := httptest.NewRequest("POST", "/grid/products/sort", strings.NewReader(`[{"columnId":"name","desc":false}]`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	view, _ := ws.Registry.Get("products")
	rows := view.Rows()
	if rows[0]["name"] != "keyboard" {
		t.Errorf("Expected alphabetical order, got %v", rows[0])
	}

	req = httptest.NewRequest("DELETE", "/grid/products/sort", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	rows = view.Rows()
	if rows[0]["name"] != "mouse" {
		t.Errorf("Expected id order after clear, got %v", rows[0])
	}
}

func TestSortUnknownColumn(t *testing.T) {
	mux := testServer(t).ClientHandler()
	req := httptest.NewRequest("POST", "/grid/products/sort", strings.NewReader(`[{"columnId":"ghost"}]`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown column, got %d", rec.Code)
	}
}

func TestAdminUpsertAndDeleteRow(t *testing.T) {
	ws := testServer(t)
	mux := ws.AdminHandler()

	req := httptest.NewRequest("POST", "/grid/products/rows", strings.NewReader(`{"rows":[{"id":4,"name":"webcam","price":59}]}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	view, _ := ws.Registry.Get("products")
	if view.SourceLen() != 4 {
		t.Errorf("Expected 4 rows, got %d", view.SourceLen())
	}

	req = httptest.NewRequest("DELETE", "/grid/products/row/4", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	if view.SourceLen() != 3 {
		t.Errorf("Expected 3 rows, got %d", view.SourceLen())
	}
}

func TestAdminCreateGrid(t *testing.T) {
	ws := testServer(t)
	mux := ws.AdminHandler()

	body := `{"name":"orders","options":{"enableSorting":true,"enableFiltering":true},"columns":[{"id":"total","field":"total","type":"float","sortable":true,"filterable":true}],"rows":[{"id":1,"total":10}]}`
	req := httptest.NewRequest("POST", "/grid", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	view, err := ws.Registry.Get("orders")
	if err != nil {
		t.Fatalf("Expected grid registered, got %v", err)
	}
	if view.SourceLen() != 1 {
		t.Errorf("Expected 1 row, got %d", view.SourceLen())
	}
}
