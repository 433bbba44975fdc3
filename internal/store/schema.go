package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price BIGINT NOT NULL,
		category_id TEXT REFERENCES categories (id),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		ticket_number TEXT NOT NULL UNIQUE,
		total BIGINT NOT NULL,
		items_count INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales (id),
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price BIGINT NOT NULL,
		total_price BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cafeteria_settings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT 'Cafétéria',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT,
		email TEXT,
		printer_model TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS processed_events (
		event_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

type seedCategory struct {
	id, name string
}

type seedProduct struct {
	id, name, categoryID string
	price                int64
	stock                int
}

var (
	seedCategories = []seedCategory{
		{"cat_1", "Boissons"},
		{"cat_2", "Snacks"},
		{"cat_3", "Sandwichs"},
		{"cat_4", "Pâtisseries"},
		{"cat_5", "Plats chauds"},
	}

	seedProducts = []seedProduct{
		{"prod_1", "Café", "cat_1", 1500, 50},
		{"prod_2", "Thé", "cat_1", 1200, 30},
		{"prod_3", "Croissant", "cat_4", 2500, 20},
		{"prod_4", "Sandwich Thon", "cat_3", 4500, 15},
	}
)

// EnsureSchema creates the tables and inserts the default seed rows.
// Idempotent: existing tables and rows are left alone.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	for _, c := range seedCategories {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO categories (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING",
			c.id, c.name)
		if err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	for _, p := range seedProducts {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO products (id, name, price, category_id, stock) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING",
			p.id, p.name, p.price, p.categoryID, p.stock)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO cafeteria_settings (id, name, address) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING",
		"default", "Cafétéria", "Adresse de la cafétéria")
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}
