package models

import "time"

// Event types
const (
	EventTypeSaleRecorded       = "SALE_RECORDED"
	EventTypeProductLowStock    = "PRODUCT_LOW_STOCK"
	EventTypeProductDeactivated = "PRODUCT_DEACTIVATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleRecordedEvent published after a sale is durably recorded. The print
// worker renders the receipt from it.
type SaleRecordedEvent struct {
	BaseEvent
	SaleID       string         `json:"sale_id"`
	TicketNumber string         `json:"ticket_number"`
	Total        int64          `json:"total"`
	ItemsCount   int            `json:"items_count"`
	CreatedAt    time.Time      `json:"created_at"`
	Items        []SaleItemData `json:"items"`
}

// ProductLowStockEvent published when a sale leaves a product at or below
// the configured threshold
type ProductLowStockEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
}

// ProductDeactivatedEvent published when a product is soft-deleted
type ProductDeactivatedEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}

// SaleItemData represents line item data in events
type SaleItemData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
}
