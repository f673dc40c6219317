package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/model"
)

// CreateOrder atomically persists an order and its line items.
//
// Each line snapshots the product's current catalog price as its unit
// price, and the order total is the sum of unit price times quantity,
// written inside the same transaction. Any failure, including an unknown
// product name, rolls the whole transaction back: the ledger never holds
// a partially-lined order.
func (s *Store) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_name, phone, address, status, total, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		req.CustomerName, req.Phone, req.Address, string(model.OrderStatusReceived), now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read order id: %w", err)
	}

	order := &model.Order{
		ID:           orderID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Status:       model.OrderStatusReceived,
		CreatedAt:    now,
	}

	var total float64
	for _, item := range req.Items {
		var unitPrice float64
		err := tx.QueryRowContext(ctx,
			`SELECT price FROM products WHERE name = ?`, item.Product,
		).Scan(&unitPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.Product)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %q: %w", item.Product, err)
		}

		lineRes, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_name, quantity, unit_price, note)
			 VALUES (?, ?, ?, ?, ?)`,
			orderID, item.Product, item.Quantity, unitPrice, item.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
		lineID, err := lineRes.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read line id: %w", err)
		}

		total += unitPrice * float64(item.Quantity)
		order.Items = append(order.Items, model.OrderLine{
			ID:          lineID,
			OrderID:     orderID,
			ProductName: item.Product,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Note:        item.Note,
		})
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET total = ? WHERE id = ?`, total, orderID,
	); err != nil {
		return nil, fmt.Errorf("failed to write order total: %w", err)
	}
	order.Total = total

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info("order committed",
		zap.Int64("order_id", orderID),
		zap.Float64("total", total),
		zap.Int("lines", len(order.Items)),
	)

	return order, nil
}

// GetOrder returns one order with its line items.
func (s *Store) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_name, phone, address, status, total, created_at
		 FROM orders WHERE id = ?`, id,
	).Scan(&order.ID, &order.CustomerName, &order.Phone, &order.Address, &status, &order.Total, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	order.Status = model.OrderStatus(status)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_name, quantity, unit_price, note
		 FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.Note); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Items = append(order.Items, line)
	}

	return &order, rows.Err()
}

// ListOrders returns orders newest first, without line items.
func (s *Store) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_name, phone, address, status, total, created_at
		 FROM orders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		var status string
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.Phone, &order.Address, &status, &order.Total, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Status = model.OrderStatus(status)
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// CountOrders returns the number of orders in the ledger.
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func validateOrderRequest(req model.OrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return errors.New("customer name is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return errors.New("phone is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		return errors.New("address is required")
	}
	if len(req.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Product) == "" {
			return errors.New("item product name is required")
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %q quantity must be at least 1", item.Product)
		}
	}
	return nil
}
