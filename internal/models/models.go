package models

import "time"

// Monetary amounts are integer millimes (three fractional digits), never floats.

// Category groups products in the catalog
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product represents a catalog product. Soft-deleted via IsActive so
// historical sale items keep a valid reference.
type Product struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Price      int64     `db:"price" json:"price"`
	CategoryID *string   `db:"category_id" json:"category_id,omitempty"`
	Stock      int       `db:"stock" json:"stock"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ProductWithCategory is a product joined with its category name
type ProductWithCategory struct {
	Product
	CategoryName *string `db:"category_name" json:"category_name,omitempty"`
}

// ProductUpdate is a partial product mutation; nil fields are left untouched
type ProductUpdate struct {
	Name       *string `json:"name,omitempty"`
	Price      *int64  `json:"price,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Stock      *int    `json:"stock,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// Sale is one checkout. Immutable once recorded.
type Sale struct {
	ID           string    `db:"id" json:"id"`
	TicketNumber string    `db:"ticket_number" json:"ticket_number"`
	Total        int64     `db:"total" json:"total"`
	ItemsCount   int       `db:"items_count" json:"items_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SaleItem is one line of a sale. ProductName and UnitPrice are copied at
// sale time so later catalog edits never alter historical receipts.
type SaleItem struct {
	ID          string `db:"id" json:"id"`
	SaleID      string `db:"sale_id" json:"sale_id"`
	ProductID   string `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Quantity    int    `db:"quantity" json:"quantity"`
	UnitPrice   int64  `db:"unit_price" json:"unit_price"`
	TotalPrice  int64  `db:"total_price" json:"total_price"`
}

// SaleWithItems is a sale together with its line items, receipt-ready
type SaleWithItems struct {
	Sale
	Items []SaleItem `json:"sale_items"`
}

// CartLine is a transient checkout line. It only exists between the till
// and RecordSale; nothing is persisted until checkout succeeds.
type CartLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

// DailySummary aggregates one calendar day of sales
type DailySummary struct {
	Date       string `json:"date"`
	SalesCount int    `json:"sales_count"`
	Revenue    int64  `json:"revenue"`
	ItemsCount int    `json:"items_count"`
}

// Settings is the single-row cafeteria configuration
type Settings struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Address      string    `db:"address" json:"address"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Email        *string   `db:"email" json:"email,omitempty"`
	PrinterModel *string   `db:"printer_model" json:"printer_model,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Printer describes one installed receipt printer
type Printer struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	IsDefault bool   `json:"is_default"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
