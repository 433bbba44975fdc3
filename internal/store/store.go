package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/ticket"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the remote relational backend for the catalog and sales ledger
type Store struct {
	db  *sqlx.DB
	gen *ticket.Generator
}

// NewStore connects to the database backend
func NewStore(databaseURL string, gen *ticket.Generator) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, gen: gen}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetSettings retrieves the most recent settings row
func (s *Store) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.GetContext(ctx, &settings,
		"SELECT * FROM cafeteria_settings ORDER BY created_at DESC LIMIT 1")
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Kind: "settings", ID: "default"}
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings upserts the settings row
func (s *Store) SaveSettings(ctx context.Context, settings *models.Settings) error {
	if settings.ID == "" {
		settings.ID = "default"
	}
	query := `
		INSERT INTO cafeteria_settings (id, name, address, phone, email, printer_model)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			printer_model = EXCLUDED.printer_model
		RETURNING created_at`

	return s.db.GetContext(ctx, &settings.CreatedAt, query,
		settings.ID, settings.Name, settings.Address, settings.Phone, settings.Email, settings.PrinterModel)
}
