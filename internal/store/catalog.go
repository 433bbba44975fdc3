package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/chekib1978/cafe-flow-print/internal/models"
)

// ListCategories retrieves all categories ordered by name
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name")
	return categories, err
}

// ListProducts retrieves active products joined with their category, ordered by name
func (s *Store) ListProducts(ctx context.Context) ([]models.ProductWithCategory, error) {
	var products []models.ProductWithCategory
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.*, c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_active = TRUE
		ORDER BY p.name`)
	return products, err
}

// GetProduct retrieves a product by ID, inactive ones included
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Kind: "product", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = s.gen.ProductID()
	}
	p.IsActive = true

	query := `
		INSERT INTO products (id, name, price, category_id, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, is_active`

	return s.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Price, p.CategoryID, p.Stock).
		Scan(&p.CreatedAt, &p.UpdatedAt, &p.IsActive)
}

// UpdateProduct merges the supplied fields and refreshes updated_at
func (s *Store) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	if upd.Stock != nil && *upd.Stock < 0 {
		return &models.ValidationError{Field: "stock", Reason: "must not be negative"}
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.Name != nil {
		sets = append(sets, "name = "+arg(*upd.Name))
	}
	if upd.Price != nil {
		sets = append(sets, "price = "+arg(*upd.Price))
	}
	if upd.CategoryID != nil {
		if *upd.CategoryID == "" {
			sets = append(sets, "category_id = NULL")
		} else {
			sets = append(sets, "category_id = "+arg(*upd.CategoryID))
		}
	}
	if upd.Stock != nil {
		sets = append(sets, "stock = "+arg(*upd.Stock))
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = "+arg(*upd.IsActive))
	}

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = %s",
		strings.Join(sets, ", "), arg(id))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Kind: "product", ID: id}
	}
	return nil
}

// DeactivateProduct soft-deletes a product
func (s *Store) DeactivateProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Kind: "product", ID: id}
	}
	return nil
}
