package localstore

import (
	"context"
	"sort"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
)

// ListCategories returns all categories ordered alphabetically by name
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortCategories(s.st.Categories), nil
}

// ListProducts returns active products joined with their category,
// ordered alphabetically by name
func (s *Store) ListProducts(ctx context.Context) ([]models.ProductWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[string]string, len(s.st.Categories))
	for _, c := range s.st.Categories {
		names[c.ID] = c.Name
	}

	out := make([]models.ProductWithCategory, 0, len(s.st.Products))
	for _, p := range s.st.Products {
		if !p.IsActive {
			continue
		}
		pc := models.ProductWithCategory{Product: p}
		if p.CategoryID != nil {
			if name, ok := names[*p.CategoryID]; ok {
				pc.CategoryName = &name
			}
		}
		out = append(out, pc)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetProduct returns a product by id, inactive ones included
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.st.findProduct(id)
	if p == nil {
		return nil, &models.NotFoundError{Kind: "product", ID: id}
	}
	cp := *p
	return &cp, nil
}

// CreateProduct inserts a product and snapshots. The id is assigned here
// when the caller leaves it empty.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Stock < 0 {
		return &models.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if p.CategoryID != nil && s.st.findCategory(*p.CategoryID) == nil {
		return &models.NotFoundError{Kind: "category", ID: *p.CategoryID}
	}

	if p.ID == "" {
		p.ID = s.gen.ProductID()
	}
	now := time.Now().UTC()
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	next := s.stage()
	next.Products = append(next.Products, *p)
	return s.commit(next)
}

// UpdateProduct merges the supplied fields and refreshes updated_at
func (s *Store) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.findProduct(id) == nil {
		return &models.NotFoundError{Kind: "product", ID: id}
	}

	if upd.Stock != nil && *upd.Stock < 0 {
		return &models.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if upd.CategoryID != nil && *upd.CategoryID != "" && s.st.findCategory(*upd.CategoryID) == nil {
		return &models.NotFoundError{Kind: "category", ID: *upd.CategoryID}
	}

	next := s.stage()
	p := next.findProduct(id)
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.CategoryID != nil {
		if *upd.CategoryID == "" {
			p.CategoryID = nil
		} else {
			cid := *upd.CategoryID
			p.CategoryID = &cid
		}
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	p.UpdatedAt = time.Now().UTC()

	return s.commit(next)
}

// DeactivateProduct soft-deletes a product. Historical sale items keep the
// denormalized name and price they were sold under.
func (s *Store) DeactivateProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.findProduct(id) == nil {
		return &models.NotFoundError{Kind: "product", ID: id}
	}

	next := s.stage()
	p := next.findProduct(id)
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	return s.commit(next)
}

// GetSettings returns the single settings row
func (s *Store) GetSettings(ctx context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := *s.st.Settings
	return &cp, nil
}

// SaveSettings upserts the settings row and snapshots
func (s *Store) SaveSettings(ctx context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.ID == "" {
		settings.ID = s.st.Settings.ID
	}
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = s.st.Settings.CreatedAt
	}

	next := s.stage()
	cp := *settings
	next.Settings = &cp
	return s.commit(next)
}

// findProduct returns a pointer into the products table, nil when absent
func (st *state) findProduct(id string) *models.Product {
	for i := range st.Products {
		if st.Products[i].ID == id {
			return &st.Products[i]
		}
	}
	return nil
}

func (st *state) findCategory(id string) *models.Category {
	for i := range st.Categories {
		if st.Categories[i].ID == id {
			return &st.Categories[i]
		}
	}
	return nil
}
