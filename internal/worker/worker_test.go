package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/printer"
	"github.com/chekib1978/cafe-flow-print/internal/receipt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSettings struct {
	settings *models.Settings
}

func (f *fixedSettings) GetSettings(_ context.Context) (*models.Settings, error) {
	return f.settings, nil
}

type memoryMarker struct {
	seen map[string]bool
}

func (m *memoryMarker) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	return m.seen[eventID], nil
}

func (m *memoryMarker) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	m.seen[eventID] = true
	return nil
}

func saleEvent() *models.SaleRecordedEvent {
	return &models.SaleRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeSaleRecorded,
			Timestamp: time.Now(),
		},
		SaleID:       "sale-1",
		TicketNumber: "T424242",
		Total:        3000,
		ItemsCount:   2,
		CreatedAt:    time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Items: []models.SaleItemData{
			{ProductID: "prod_1", ProductName: "Café", Quantity: 2, UnitPrice: 1500, TotalPrice: 3000},
		},
	}
}

func newTestWorker(t *testing.T, processed ProcessedMarker) (*PrintWorker, string) {
	t.Helper()

	dir := t.TempDir()
	spooler, err := printer.NewSpooler(dir)
	require.NoError(t, err)

	settings := &fixedSettings{settings: &models.Settings{
		ID:   "default",
		Name: "Cafétéria",
	}}

	w := NewPrintWorker(nil, receipt.NewRenderer("TND"), spooler, settings, processed)
	return w, dir
}

func TestHandleSaleRecordedSpoolsReceipt(t *testing.T) {
	w, dir := newTestWorker(t, nil)

	err := w.handleSaleRecorded(context.Background(), saleEvent())
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "ticket_T424242.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Ticket N°: T424242")
	assert.Contains(t, string(content), "Café")
	assert.Contains(t, string(content), "3.000 TND")
}

func TestHandleSaleRecordedSkipsProcessedEvent(t *testing.T) {
	marker := &memoryMarker{seen: map[string]bool{}}
	w, dir := newTestWorker(t, marker)

	event := saleEvent()
	require.NoError(t, w.handleSaleRecorded(context.Background(), event))
	assert.True(t, marker.seen[event.EventID])

	// Remove the spooled file; a re-delivered event must not recreate it
	path := filepath.Join(dir, "ticket_T424242.txt")
	require.NoError(t, os.Remove(path))

	require.NoError(t, w.handleSaleRecorded(context.Background(), event))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
