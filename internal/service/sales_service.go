package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesService handles checkout and sales history
type SalesService struct {
	store             Store
	stockGuard        StockGuard
	publisher         EventPublisher
	logger            *zap.Logger
	lowStockThreshold int
}

// NewSalesService creates a new sales service. stockGuard and publisher may
// be nil (embedded mode without a cache, tests without a broker).
func NewSalesService(store Store, stockGuard StockGuard, publisher EventPublisher, lowStockThreshold int) *SalesService {
	return &SalesService{
		store:             store,
		stockGuard:        stockGuard,
		publisher:         publisher,
		logger:            util.GetLogger(),
		lowStockThreshold: lowStockThreshold,
	}
}

// RecordSale validates the cart and records the sale as one unit of work.
// Over-selling is rejected here regardless of what the till UI permitted.
func (s *SalesService) RecordSale(ctx context.Context, lines []models.CartLine) (*models.SaleWithItems, error) {
	ctx, span := util.StartSpan(ctx, "SalesService.RecordSale")
	defer span.End()

	if err := validateCart(lines); err != nil {
		util.SalesFailedTotal.WithLabelValues("invalid_cart").Inc()
		return nil, err
	}

	guarded, err := s.guardStock(ctx, lines)
	if err != nil {
		util.SalesFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, err
	}

	sale, err := s.store.RecordSale(ctx, lines)
	if err != nil {
		if guarded {
			s.restoreGuardedStock(ctx, lines)
		}

		var insufficient *models.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			util.SalesFailedTotal.WithLabelValues("insufficient_stock").Inc()
			util.StockDecrementFailedTotal.WithLabelValues("insufficient_stock").Inc()
		case models.IsNotFound(err):
			util.SalesFailedTotal.WithLabelValues("unknown_product").Inc()
		default:
			util.SalesFailedTotal.WithLabelValues("store_error").Inc()
		}
		return nil, err
	}

	util.SalesRecordedTotal.Inc()
	util.SaleItemsRecordedTotal.Add(float64(len(sale.Items)))
	util.SaleRevenueTotal.Add(float64(sale.Total))

	s.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("ticket_number", sale.TicketNumber),
		zap.Int64("total", sale.Total),
		zap.Int("items_count", sale.ItemsCount))

	s.publishSaleRecorded(ctx, sale)
	s.checkLowStock(ctx, lines)

	return sale, nil
}

// ListSales returns the full sales history newest-first
func (s *SalesService) ListSales(ctx context.Context) ([]models.SaleWithItems, error) {
	return s.store.ListSales(ctx)
}

// SalesSummary aggregates one calendar day of sales
func (s *SalesService) SalesSummary(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	return s.store.SalesSummary(ctx, day)
}

// guardStock runs the fast-path cache decrement for every line. Returns
// whether the cache was actually decremented (and so needs compensation on
// a later failure). Cache errors degrade to the database check alone.
func (s *SalesService) guardStock(ctx context.Context, lines []models.CartLine) (bool, error) {
	if s.stockGuard == nil {
		return false, nil
	}

	for i, line := range lines {
		ok, err := s.stockGuard.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			s.logger.Warn("Stock cache unavailable, relying on store check",
				zap.String("product_id", line.ProductID),
				zap.Error(err))
			s.restoreGuardedStock(ctx, lines[:i])
			return false, nil
		}
		if !ok {
			s.restoreGuardedStock(ctx, lines[:i])
			return false, s.insufficientStockError(ctx, line)
		}
	}
	return true, nil
}

// restoreGuardedStock puts cache decrements back (compensation)
func (s *SalesService) restoreGuardedStock(ctx context.Context, lines []models.CartLine) {
	if s.stockGuard == nil {
		return
	}
	for _, line := range lines {
		if err := s.stockGuard.RestoreStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Error("Failed to restore cached stock",
				zap.String("product_id", line.ProductID),
				zap.Error(err))
		}
	}
}

// insufficientStockError builds the typed error with the live count when
// the store can supply it
func (s *SalesService) insufficientStockError(ctx context.Context, line models.CartLine) error {
	insufficient := &models.InsufficientStockError{
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Requested:   line.Quantity,
	}
	if p, err := s.store.GetProduct(ctx, line.ProductID); err == nil {
		insufficient.ProductName = p.Name
		insufficient.Available = p.Stock
	}
	return insufficient
}

func (s *SalesService) publishSaleRecorded(ctx context.Context, sale *models.SaleWithItems) {
	if s.publisher == nil {
		return
	}

	items := make([]models.SaleItemData, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, models.SaleItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	event := &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID:       sale.ID,
		TicketNumber: sale.TicketNumber,
		Total:        sale.Total,
		ItemsCount:   sale.ItemsCount,
		CreatedAt:    sale.CreatedAt,
		Items:        items,
	}

	if err := s.publisher.PublishSaleRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleRecorded event", zap.Error(err))
	}
}

// checkLowStock emits an event per product the sale left at or below the
// threshold
func (s *SalesService) checkLowStock(ctx context.Context, lines []models.CartLine) {
	if s.publisher == nil || s.lowStockThreshold <= 0 {
		return
	}

	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true

		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil || product.Stock > s.lowStockThreshold {
			continue
		}

		util.LowStockEventsTotal.Inc()
		event := &models.ProductLowStockEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeProductLowStock,
				Timestamp: time.Now(),
			},
			ProductID:   product.ID,
			ProductName: product.Name,
			Stock:       product.Stock,
			Threshold:   s.lowStockThreshold,
		}
		if err := s.publisher.PublishProductLowStock(ctx, event); err != nil {
			s.logger.Error("Failed to publish ProductLowStock event", zap.Error(err))
		}
	}
}

func validateCart(lines []models.CartLine) error {
	if len(lines) == 0 {
		return &models.ValidationError{Field: "cart", Reason: "must not be empty"}
	}
	for _, line := range lines {
		if line.ProductID == "" {
			return &models.ValidationError{Field: "product_id", Reason: "must not be empty"}
		}
		if strings.TrimSpace(line.ProductName) == "" {
			return &models.ValidationError{Field: "product_name", Reason: "must not be empty"}
		}
		if line.Quantity <= 0 {
			return &models.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
		if line.UnitPrice < 0 {
			return &models.ValidationError{Field: "unit_price", Reason: "must not be negative"}
		}
	}
	return nil
}

// CalculateTotal sums quantity times unit price over the cart, in millimes
func CalculateTotal(lines []models.CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}
