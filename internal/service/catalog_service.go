package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles category and product management. Validation is
// centralized here: the stores trust their callers.
type CatalogService struct {
	store     Store
	publisher EventPublisher
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store Store, publisher EventPublisher) *CatalogService {
	return &CatalogService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name       string  `json:"name" binding:"required"`
	Price      int64   `json:"price"`
	CategoryID *string `json:"category_id,omitempty"`
	Stock      int     `json:"stock"`
}

// ListCategories returns all categories ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// ListProducts returns the active catalog ordered by name
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.ProductWithCategory, error) {
	return s.store.ListProducts(ctx)
}

// CreateProduct validates and inserts a new product
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := validateProductFields(req.Name, req.Price, req.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:       strings.TrimSpace(req.Name),
		Price:      req.Price,
		CategoryID: req.CategoryID,
		Stock:      req.Stock,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int64("price", product.Price))

	return product, nil
}

// UpdateProduct validates and applies a partial product update
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if upd.Price != nil && *upd.Price < 0 {
		return &models.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return &models.ValidationError{Field: "stock", Reason: "must not be negative"}
	}

	if err := s.store.UpdateProduct(ctx, id, upd); err != nil {
		return err
	}

	util.ProductsUpdatedTotal.Inc()
	s.logger.Info("Product updated", zap.String("product_id", id))
	return nil
}

// DeactivateProduct soft-deletes a product and publishes the event
func (s *CatalogService) DeactivateProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeactivateProduct")
	defer span.End()

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeactivateProduct(ctx, id); err != nil {
		return err
	}

	util.ProductsDeactivatedTotal.Inc()
	s.logger.Info("Product deactivated",
		zap.String("product_id", id),
		zap.String("name", product.Name))

	if s.publisher != nil {
		event := &models.ProductDeactivatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeProductDeactivated,
				Timestamp: time.Now(),
			},
			ProductID:   product.ID,
			ProductName: product.Name,
		}
		if err := s.publisher.PublishProductDeactivated(ctx, event); err != nil {
			s.logger.Error("Failed to publish ProductDeactivated event", zap.Error(err))
		}
	}

	return nil
}

func validateProductFields(name string, price int64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if price < 0 {
		return &models.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if stock < 0 {
		return &models.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}
