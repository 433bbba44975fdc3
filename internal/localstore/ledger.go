package localstore

import (
	"context"
	"sort"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
)

// RecordSale records one checkout as a single unit of work: the sale row,
// its line items and the stock decrements are applied together under the
// write lock, then one snapshot covers all of it. Any failed check leaves
// the store untouched, so a partial sale is never observable.
func (s *Store) RecordSale(ctx context.Context, lines []models.CartLine) (*models.SaleWithItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate every line before touching anything. Quantities are summed
	// per product so a cart holding the same product on several lines
	// cannot slip past the stock check.
	if len(lines) == 0 {
		return nil, &models.ValidationError{Field: "cart", Reason: "must not be empty"}
	}
	need := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &models.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
		p := s.st.findProduct(line.ProductID)
		if p == nil {
			return nil, &models.NotFoundError{Kind: "product", ID: line.ProductID}
		}
		need[line.ProductID] += line.Quantity
		if p.Stock < need[line.ProductID] {
			return nil, &models.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   need[line.ProductID],
			}
		}
	}

	now := time.Now().UTC()
	var total int64
	itemsCount := 0
	for _, line := range lines {
		total += line.UnitPrice * int64(line.Quantity)
		itemsCount += line.Quantity
	}

	sale := models.Sale{
		ID:           s.gen.SaleID(),
		TicketNumber: s.gen.TicketNumber(),
		Total:        total,
		ItemsCount:   itemsCount,
		CreatedAt:    now,
	}

	// Build the whole mutation on a staged copy; the live state only moves
	// forward once the snapshot is durably written.
	next := s.stage()
	items := make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.SaleItem{
			ID:          s.gen.ItemID(),
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.UnitPrice * int64(line.Quantity),
		})
		next.findProduct(line.ProductID).Stock -= line.Quantity
	}

	next.Sales = append(next.Sales, sale)
	next.SaleItems = append(next.SaleItems, items...)

	if err := s.commit(next); err != nil {
		return nil, err
	}

	return &models.SaleWithItems{Sale: sale, Items: items}, nil
}

// ListSales returns all sales newest-first, each with its line items
func (s *Store) ListSales(ctx context.Context) ([]models.SaleWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySale := make(map[string][]models.SaleItem, len(s.st.Sales))
	for _, item := range s.st.SaleItems {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}

	out := make([]models.SaleWithItems, 0, len(s.st.Sales))
	for _, sale := range s.st.Sales {
		out = append(out, models.SaleWithItems{Sale: sale, Items: bySale[sale.ID]})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SalesSummary aggregates sales for one calendar day (UTC)
func (s *Store) SalesSummary(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, m, d := day.UTC().Date()
	summary := &models.DailySummary{Date: day.UTC().Format("2006-01-02")}

	for _, sale := range s.st.Sales {
		sy, sm, sd := sale.CreatedAt.UTC().Date()
		if sy == y && sm == m && sd == d {
			summary.SalesCount++
			summary.Revenue += sale.Total
			summary.ItemsCount += sale.ItemsCount
		}
	}
	return summary, nil
}
