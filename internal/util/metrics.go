package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_recorded_total",
		Help: "Total number of sales recorded",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_failed_total",
		Help: "Total number of failed sale recordings",
	}, []string{"reason"})

	SaleItemsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sale_items_recorded_total",
		Help: "Total number of sale line items recorded",
	})

	SaleRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sale_revenue_millimes_total",
		Help: "Cumulative recorded sale revenue in millimes",
	})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	ProductsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_updated_total",
		Help: "Total number of product updates",
	})

	ProductsDeactivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deactivated_total",
		Help: "Total number of products deactivated",
	})

	StockDecrementFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_decrement_failed_total",
		Help: "Total number of rejected stock decrements",
	}, []string{"reason"})

	LowStockEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_events_total",
		Help: "Total number of low stock events emitted",
	})

	SnapshotWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_write_latency_seconds",
		Help:    "Latency of full-image snapshot writes",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_writes_total",
		Help: "Total number of full-image snapshot writes",
	})

	ReceiptsPrintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_printed_total",
		Help: "Total number of receipts spooled for printing",
	})

	ReceiptsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_failed_total",
		Help: "Total number of receipts that could not be printed",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
