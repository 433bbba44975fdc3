package service

import (
	"context"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
)

// Store is the sales ledger backend. Both the relational store and the
// embedded snapshot-persisted store implement it; the services never know
// which one they are talking to.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context) ([]models.ProductWithCategory, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error
	DeactivateProduct(ctx context.Context, id string) error

	RecordSale(ctx context.Context, lines []models.CartLine) (*models.SaleWithItems, error)
	ListSales(ctx context.Context) ([]models.SaleWithItems, error)
	SalesSummary(ctx context.Context, day time.Time) (*models.DailySummary, error)

	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
}

// EventPublisher publishes domain events after mutations commit
type EventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error
	PublishProductLowStock(ctx context.Context, event *models.ProductLowStockEvent) error
	PublishProductDeactivated(ctx context.Context, event *models.ProductDeactivatedEvent) error
}

// StockGuard is the fast-path stock check in front of the database
// transaction (remote backend only; nil in embedded mode)
type StockGuard interface {
	DecrementStock(ctx context.Context, productID string, quantity int) (bool, error)
	RestoreStock(ctx context.Context, productID string, quantity int) error
}
