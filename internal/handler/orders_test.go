package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/internal/store"
)

func newTestAPI(t *testing.T) (*chi.Mux, *store.Store) {
	t.Helper()
	log := testLogger(t)
	db, err := store.Open(":memory:", log)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Seed(context.Background()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	menuHandler := NewMenuHandler(db, log)
	orderHandler := NewOrderHandler(db, log)
	healthHandler := NewHealthHandler(db)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/api/v1/menu", menuHandler.List)
	r.Get("/api/v1/orders", orderHandler.List)
	r.Get("/api/v1/orders/{id}", orderHandler.Get)
	return r, db
}

func doGet(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMenuList(t *testing.T) {
	r, _ := newTestAPI(t)

	rec := doGet(t, r, "/api/v1/menu")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Items []model.MenuItem `json:"items"`
		Count int              `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Count != 6 || len(resp.Items) != 6 {
		t.Fatalf("expected 6 seeded items, got count=%d len=%d", resp.Count, len(resp.Items))
	}
	if resp.Items[0].Name != "X-Python" {
		t.Fatalf("expected X-Python first, got %q", resp.Items[0].Name)
	}
}

func TestOrderGetAndList(t *testing.T) {
	r, db := newTestAPI(t)

	created, err := db.CreateOrder(context.Background(), model.OrderRequest{
		CustomerName: "Maria",
		Phone:        "+5511999998888",
		Address:      "Rua A, 1",
		Items:        []model.LineItemRequest{{Product: "X-Python", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	rec := doGet(t, r, "/api/v1/orders/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got model.Order
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.ID != created.ID || len(got.Items) != 1 {
		t.Fatalf("unexpected order: %+v", got)
	}

	rec = doGet(t, r, "/api/v1/orders")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Orders []model.Order `json:"orders"`
		Count  int           `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if list.Count != 1 {
		t.Fatalf("expected 1 order, got %d", list.Count)
	}
}

func TestOrderGetErrors(t *testing.T) {
	r, _ := newTestAPI(t)

	if rec := doGet(t, r, "/api/v1/orders/999"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := doGet(t, r, "/api/v1/orders/abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := doGet(t, r, "/api/v1/orders?limit=0"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestHealthAndReady(t *testing.T) {
	r, _ := newTestAPI(t)

	if rec := doGet(t, r, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := doGet(t, r, "/ready"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
