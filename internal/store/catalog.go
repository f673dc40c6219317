package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/model"
)

// defaultCatalog is inserted the first time the store starts against an
// empty products table.
var defaultCatalog = []model.MenuItem{
	{Name: "X-Python", Description: "Pão brioche, burger 180g, queijo cheddar, bacon em tiras e molho especial.", Price: 28.90, Category: "Lanche"},
	{Name: "Smash Java", Description: "Pão australiano, dois burgers de 80g amassados na chapa, queijo prato.", Price: 22.50, Category: "Lanche"},
	{Name: "C++ Crispy", Description: "Burger de frango empanado super crocante com alface americana e maionese.", Price: 24.00, Category: "Lanche"},
	{Name: "Batata Array", Description: "Porção de batata frita rústica com alecrim.", Price: 12.00, Category: "Acompanhamento"},
	{Name: "Coca-Cola Lata", Description: "350ml bem gelada.", Price: 6.00, Category: "Bebida"},
	{Name: "Suco Natural", Description: "Laranja ou Limão 500ml.", Price: 10.00, Category: "Bebida"},
}

// Seed inserts the default catalog if the products table is empty.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, item := range defaultCatalog {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO products (name, description, price, category) VALUES (?, ?, ?, ?)`,
			item.Name, item.Description, item.Price, item.Category,
		); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", item.Name, err)
		}
	}

	s.logger.Info("catalog seeded", zap.Int("products", len(defaultCatalog)))
	return nil
}

// AddProduct inserts one catalog item and returns its generated id.
func (s *Store) AddProduct(ctx context.Context, item model.MenuItem) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, category) VALUES (?, ?, ?, ?)`,
		item.Name, item.Description, item.Price, item.Category,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return res.LastInsertId()
}

// UpdateProductPrice changes a product's current price. Historical order
// lines keep the price snapshotted at order time.
func (s *Store) UpdateProductPrice(ctx context.Context, name string, price float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE products SET price = ? WHERE name = ?`, price, name)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}
	return nil
}

// GetAll returns every catalog item.
func (s *Store) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, category FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// FindByName looks up a product by exact, case-sensitive name.
func (s *Store) FindByName(ctx context.Context, name string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, category FROM products WHERE name = ?`,
		name,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &item, nil
}
