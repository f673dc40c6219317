package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	s, err := Open(":memory:", log)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	first, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected seeded catalog to have items")
	}

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	second, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("expected %d items after reseed, got %d", len(first), len(second))
	}
}

func TestFindByNameExactMatch(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	item, err := s.FindByName(ctx, "X-Python")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if !almostEqual(item.Price, 28.90) {
		t.Fatalf("expected price 28.90, got %v", item.Price)
	}

	// Lookup is exact, not fuzzy
	if _, err := s.FindByName(ctx, "x-python"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for wrong case, got %v", err)
	}
	if _, err := s.FindByName(ctx, "Pizza"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateOrderComputesTotalFromCatalogPrices(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	order, err := s.CreateOrder(ctx, model.OrderRequest{
		CustomerName: "Maria Silva",
		Phone:        "+5511999998888",
		Address:      "Rua das Flores, 123",
		Items: []model.LineItemRequest{
			{Product: "X-Python", Quantity: 2, Note: "sem cebola"},
			{Product: "Coca-Cola Lata", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// 2 * 28.90 + 1 * 6.00
	if !almostEqual(order.Total, 63.80) {
		t.Fatalf("expected total 63.80, got %v", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Items))
	}
	if order.Items[0].Note != "sem cebola" {
		t.Fatalf("expected note preserved, got %q", order.Items[0].Note)
	}
	if order.Status != model.OrderStatusReceived {
		t.Fatalf("expected status received, got %q", order.Status)
	}

	got, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !almostEqual(got.Total, order.Total) {
		t.Fatalf("persisted total %v does not match %v", got.Total, order.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 persisted lines, got %d", len(got.Items))
	}
}

func TestCreateOrderTwoBurgers(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	order, err := s.CreateOrder(ctx, model.OrderRequest{
		CustomerName: "Carlos",
		Phone:        "+5511966665555",
		Address:      "Rua D, 10",
		Items: []model.LineItemRequest{
			{Product: "X-Python", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !almostEqual(order.Total, 57.80) {
		t.Fatalf("expected total 57.80, got %v", order.Total)
	}
}

func TestCreateOrderUnknownProductRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	_, err := s.CreateOrder(ctx, model.OrderRequest{
		CustomerName: "João",
		Phone:        "+5511988887777",
		Address:      "Av. Central, 45",
		Items: []model.LineItemRequest{
			{Product: "X-Python", Quantity: 1},
			{Product: "Pastel de Flango", Quantity: 3},
		},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	count, err := s.CountOrders(ctx)
	if err != nil {
		t.Fatalf("CountOrders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders after rollback, got %d", count)
	}
}

func TestCreateOrderSnapshotsUnitPrice(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	order, err := s.CreateOrder(ctx, model.OrderRequest{
		CustomerName: "Ana",
		Phone:        "+5511977776666",
		Address:      "Rua B, 7",
		Items: []model.LineItemRequest{
			{Product: "Smash Java", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !almostEqual(order.Items[0].UnitPrice, 22.50) {
		t.Fatalf("expected snapshot price 22.50, got %v", order.Items[0].UnitPrice)
	}

	if err := s.UpdateProductPrice(ctx, "Smash Java", 30.00); err != nil {
		t.Fatalf("UpdateProductPrice failed: %v", err)
	}

	got, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !almostEqual(got.Items[0].UnitPrice, 22.50) {
		t.Fatalf("price change leaked into committed order: %v", got.Items[0].UnitPrice)
	}
	if !almostEqual(got.Total, 22.50) {
		t.Fatalf("total changed after price update: %v", got.Total)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	cases := []struct {
		name string
		req  model.OrderRequest
	}{
		{"empty name", model.OrderRequest{Phone: "1", Address: "a", Items: []model.LineItemRequest{{Product: "X-Python", Quantity: 1}}}},
		{"empty phone", model.OrderRequest{CustomerName: "n", Address: "a", Items: []model.LineItemRequest{{Product: "X-Python", Quantity: 1}}}},
		{"empty address", model.OrderRequest{CustomerName: "n", Phone: "1", Items: []model.LineItemRequest{{Product: "X-Python", Quantity: 1}}}},
		{"no items", model.OrderRequest{CustomerName: "n", Phone: "1", Address: "a"}},
		{"zero quantity", model.OrderRequest{CustomerName: "n", Phone: "1", Address: "a", Items: []model.LineItemRequest{{Product: "X-Python", Quantity: 0}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateOrder(ctx, tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	count, err := s.CountOrders(ctx)
	if err != nil {
		t.Fatalf("CountOrders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders, got %d", count)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.CreateOrder(ctx, model.OrderRequest{
			CustomerName: "Cliente",
			Phone:        "+5511900000000",
			Address:      "Rua C, 1",
			Items:        []model.LineItemRequest{{Product: "Batata Array", Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}

	orders, err := s.ListOrders(ctx, 2)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID <= orders[1].ID {
		t.Fatalf("expected newest first, got ids %d then %d", orders[0].ID, orders[1].ID)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	if _, err := s.GetOrder(ctx, 999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
