package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
)

// RecordSale records a checkout in one transaction: sale row, line items and
// stock decrements commit together or not at all. Stock rows are locked with
// FOR UPDATE so a concurrent till cannot oversell the same product.
func (s *Store) RecordSale(ctx context.Context, lines []models.CartLine) (*models.SaleWithItems, error) {
	if len(lines) == 0 {
		return nil, &models.ValidationError{Field: "cart", Reason: "must not be empty"}
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &models.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock and check every product before writing anything. Quantities are
	// summed per product so a cart holding the same product on several
	// lines fails here with the typed error instead of tripping the CHECK
	// constraint mid-write.
	need := make(map[string]int, len(lines))
	for _, line := range lines {
		var p models.Product
		err := tx.GetContext(ctx, &p,
			"SELECT * FROM products WHERE id = $1 FOR UPDATE", line.ProductID)
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Kind: "product", ID: line.ProductID}
		}
		if err != nil {
			return nil, err
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
	}

	err = tx.GetContext(ctx, &sale.CreatedAt, `
		INSERT INTO sales (id, ticket_number, total, items_count)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		sale.ID, sale.TicketNumber, sale.Total, sale.ItemsCount)
	if err != nil {
		return nil, err
	}

	items := make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		item := models.SaleItem{
			ID:          s.gen.ItemID(),
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.UnitPrice * int64(line.Quantity),
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.SaleID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2",
			line.Quantity, line.ProductID)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.SaleWithItems{Sale: sale, Items: items}, nil
}

// ListSales retrieves all sales newest-first with their line items
func (s *Store) ListSales(ctx context.Context) ([]models.SaleWithItems, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales, "SELECT * FROM sales ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	var items []models.SaleItem
	err = s.db.SelectContext(ctx, &items, "SELECT * FROM sale_items")
	if err != nil {
		return nil, err
	}

	bySale := make(map[string][]models.SaleItem, len(sales))
	for _, item := range items {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}

	out := make([]models.SaleWithItems, 0, len(sales))
	for _, sale := range sales {
		out = append(out, models.SaleWithItems{Sale: sale, Items: bySale[sale.ID]})
	}
	return out, nil
}

// SalesSummary aggregates sales for one calendar day (UTC)
func (s *Store) SalesSummary(ctx context.Context, day time.Time) (*models.DailySummary, error) {
	dayStart := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)

	summary := models.DailySummary{Date: dayStart.Format("2006-01-02")}
	err := s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(items_count), 0)
		FROM sales
		WHERE created_at >= $1 AND created_at < $2`,
		dayStart, dayStart.AddDate(0, 0, 1)).
		Scan(&summary.SalesCount, &summary.Revenue, &summary.ItemsCount)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var ev models.ProcessedEvent
	err := s.db.GetContext(ctx, &ev,
		"SELECT * FROM processed_events WHERE event_id = $1", eventID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
