// Package localstore is the embedded single-user sales ledger. All tables
// live in memory behind one mutex; every mutating call rewrites the whole
// serialized image into a bbolt slot before returning, so the durable state
// never reflects a half-applied sale.
package localstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/ticket"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// schemaVersion is stamped into every snapshot so a future layout change can
// migrate on load instead of misreading old images.
const schemaVersion = 1

// state is the whole embedded database. It is what gets serialized.
type state struct {
	SchemaVersion int                `json:"schema_version"`
	Categories    []models.Category  `json:"categories"`
	Products      []models.Product   `json:"products"`
	Sales         []models.Sale      `json:"sales"`
	SaleItems     []models.SaleItem  `json:"sale_items"`
	Settings      *models.Settings   `json:"settings"`
}

// Store is the embedded ledger. Exclusively owned by the process; the mutex
// serializes the single logical writer against concurrent HTTP readers.
type Store struct {
	mu     sync.RWMutex
	st     *state
	db     *bolt.DB
	gen    *ticket.Generator
	logger *zap.Logger
}

// Options controls snapshot loading behavior
type Options struct {
	// ResetOnCorrupt rebuilds a fresh seeded store instead of failing when
	// the persisted snapshot cannot be decoded. Off by default: losing the
	// ledger silently is worse than refusing to start.
	ResetOnCorrupt bool
}

// Open loads the store from its snapshot slot, or seeds a fresh schema when
// no snapshot exists yet.
func Open(path string, gen *ticket.Generator, opts Options) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot slot: %w", err)
	}

	s := &Store{
		db:     db,
		gen:    gen,
		logger: util.GetLogger(),
	}

	st, err := s.load()
	switch {
	case err == nil:
		s.st = st
		s.logger.Info("Snapshot loaded",
			zap.Int("products", len(st.Products)),
			zap.Int("sales", len(st.Sales)))
	case err == models.ErrSnapshotMissing:
		s.st = seededState()
		if err := s.persist(s.st); err != nil {
			db.Close()
			return nil, err
		}
		s.logger.Info("Fresh store initialized with seed data")
	default:
		if !opts.ResetOnCorrupt {
			db.Close()
			return nil, err
		}
		s.logger.Warn("Snapshot unreadable, rebuilding fresh store", zap.Error(err))
		s.st = seededState()
		if err := s.persist(s.st); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close closes the snapshot slot
func (s *Store) Close() error {
	return s.db.Close()
}

// seededState builds the first-run schema with the default catalog
func seededState() *state {
	now := time.Now().UTC()

	categories := []models.Category{
		{ID: "cat_1", Name: "Boissons", CreatedAt: now},
		{ID: "cat_2", Name: "Snacks", CreatedAt: now},
		{ID: "cat_3", Name: "Sandwichs", CreatedAt: now},
		{ID: "cat_4", Name: "Pâtisseries", CreatedAt: now},
		{ID: "cat_5", Name: "Plats chauds", CreatedAt: now},
	}

	cat := func(id string) *string { return &id }
	products := []models.Product{
		{ID: "prod_1", Name: "Café", Price: 1500, CategoryID: cat("cat_1"), Stock: 50, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod_2", Name: "Thé", Price: 1200, CategoryID: cat("cat_1"), Stock: 30, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod_3", Name: "Croissant", Price: 2500, CategoryID: cat("cat_4"), Stock: 20, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "prod_4", Name: "Sandwich Thon", Price: 4500, CategoryID: cat("cat_3"), Stock: 15, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}

	return &state{
		SchemaVersion: schemaVersion,
		Categories:    categories,
		Products:      products,
		Sales:         []models.Sale{},
		SaleItems:     []models.SaleItem{},
		Settings: &models.Settings{
			ID:        "default",
			Name:      "Cafétéria",
			Address:   "Adresse de la cafétéria",
			CreatedAt: now,
		},
	}
}

// sortCategories orders a copy alphabetically by name
func sortCategories(in []models.Category) []models.Category {
	out := make([]models.Category, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
