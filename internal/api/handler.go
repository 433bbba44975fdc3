package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/printer"
	"github.com/chekib1978/cafe-flow-print/internal/service"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	sales    *service.SalesService
	settings *service.SettingsService
	printers *printer.Inventory
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	sales *service.SalesService,
	settings *service.SettingsService,
	printers *printer.Inventory,
) *Handler {
	return &Handler{
		catalog:  catalog,
		sales:    sales,
		settings: settings,
		printers: printers,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", h.listCategories)

		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.PATCH("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deactivateProduct)

		v1.POST("/sales", h.recordSale)
		v1.GET("/sales", h.listSales)
		v1.GET("/sales/summary", h.salesSummary)

		v1.GET("/settings", h.getSettings)
		v1.PUT("/settings", h.saveSettings)

		v1.GET("/printers", h.listPrinters)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), upd); err != nil {
		respondError(c, "Failed to update product", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) deactivateProduct(c *gin.Context) {
	if err := h.catalog.DeactivateProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to deactivate product", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recordSaleRequest is the checkout payload
type recordSaleRequest struct {
	Lines []models.CartLine `json:"lines" binding:"required,min=1"`
}

func (h *Handler) recordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sale, err := h.sales.RecordSale(c.Request.Context(), req.Lines)
	if err != nil {
		respondError(c, "Failed to record sale", err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) listSales(c *gin.Context) {
	sales, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to list sales", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func (h *Handler) salesSummary(c *gin.Context) {
	day := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid date, expected YYYY-MM-DD",
				"details": err.Error(),
			})
			return
		}
		day = parsed
	}

	summary, err := h.sales.SalesSummary(c.Request.Context(), day)
	if err != nil {
		respondError(c, "Failed to summarize sales", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getSettings(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) saveSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.settings.SaveSettings(c.Request.Context(), &settings); err != nil {
		respondError(c, "Failed to save settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) listPrinters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"printers": h.printers.List()})
}

// respondError maps domain errors to HTTP statuses
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError

	var validation *models.ValidationError
	var notFound *models.NotFoundError
	var insufficient *models.InsufficientStockError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &insufficient):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
