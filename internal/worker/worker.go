package worker

import (
	"context"
	"log"

	"github.com/chekib1978/cafe-flow-print/internal/broker"
	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/printer"
	"github.com/chekib1978/cafe-flow-print/internal/receipt"
	"github.com/chekib1978/cafe-flow-print/internal/util"
)

// SettingsReader supplies the receipt header fields
type SettingsReader interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
}

// ProcessedMarker deduplicates re-delivered events. May be nil (the spooler
// already overwrites by ticket number, so duplicates are harmless).
type ProcessedMarker interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// PrintWorker consumes recorded sales and spools their receipts
type PrintWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	renderer     *receipt.Renderer
	spooler      *printer.Spooler
	settings     SettingsReader
	processed    ProcessedMarker
}

// NewPrintWorker creates a new print worker
func NewPrintWorker(
	consumer *broker.Consumer,
	renderer *receipt.Renderer,
	spooler *printer.Spooler,
	settings SettingsReader,
	processed ProcessedMarker,
) *PrintWorker {
	w := &PrintWorker{
		consumer:  consumer,
		renderer:  renderer,
		spooler:   spooler,
		settings:  settings,
		processed: processed,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnSaleRecorded(w.handleSaleRecorded)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *PrintWorker) Start(ctx context.Context) error {
	log.Println("Starting print worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *PrintWorker) Stop() error {
	log.Println("Stopping print worker...")
	return w.consumer.Close()
}

func (w *PrintWorker) handleSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error {
	if w.processed != nil {
		done, err := w.processed.IsEventProcessed(ctx, event.EventID)
		if err != nil {
			log.Printf("Failed to check processed event %s: %v", event.EventID, err)
		} else if done {
			return nil
		}
	}

	settings, err := w.settings.GetSettings(ctx)
	if err != nil {
		util.ReceiptsFailedTotal.WithLabelValues("settings_unavailable").Inc()
		return err
	}

	sale := saleFromEvent(event)
	path, err := w.spooler.Spool(sale.TicketNumber, []byte(w.renderer.Render(sale, settings)))
	if err != nil {
		util.ReceiptsFailedTotal.WithLabelValues("spool_error").Inc()
		return err
	}

	util.ReceiptsPrintedTotal.Inc()
	log.Printf("Receipt spooled: ticket=%s, path=%s", sale.TicketNumber, path)

	if w.processed != nil {
		if err := w.processed.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
			log.Printf("Failed to mark event %s processed: %v", event.EventID, err)
		}
	}
	return nil
}

// saleFromEvent rebuilds a receipt-ready sale from the event payload
func saleFromEvent(event *models.SaleRecordedEvent) *models.SaleWithItems {
	items := make([]models.SaleItem, 0, len(event.Items))
	for _, it := range event.Items {
		items = append(items, models.SaleItem{
			SaleID:      event.SaleID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}

	return &models.SaleWithItems{
		Sale: models.Sale{
			ID:           event.SaleID,
			TicketNumber: event.TicketNumber,
			Total:        event.Total,
			ItemsCount:   event.ItemsCount,
			CreatedAt:    event.CreatedAt,
		},
		Items: items,
	}
}
