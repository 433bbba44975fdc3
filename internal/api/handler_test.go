package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/chekib1978/cafe-flow-print/internal/localstore"
	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/printer"
	"github.com/chekib1978/cafe-flow-print/internal/service"
	"github.com/chekib1978/cafe-flow-print/internal/ticket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopPublisher drops events so handler tests need no broker
type noopPublisher struct{}

func (noopPublisher) PublishSaleRecorded(context.Context, *models.SaleRecordedEvent) error { return nil }
func (noopPublisher) PublishProductLowStock(context.Context, *models.ProductLowStockEvent) error {
	return nil
}
func (noopPublisher) PublishProductDeactivated(context.Context, *models.ProductDeactivatedEvent) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gen, err := ticket.NewGenerator(0)
	require.NoError(t, err)

	store, err := localstore.Open(filepath.Join(t.TempDir(), "cafeteria.db"), gen, localstore.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	publisher := noopPublisher{}
	catalog := service.NewCatalogService(store, publisher)
	sales := service.NewSalesService(store, nil, publisher, 5)
	settings := service.NewSettingsService(store)
	printers := printer.NewInventory([]string{"EPSON TM-T20", "PDF"}, "PDF")

	handler := NewHandler(catalog, sales, settings, printers)
	router := gin.New()
	handler.SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/ready", nil).Code)
}

func TestListCategoriesAndProducts(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var catResp struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catResp))
	assert.Len(t, catResp.Categories, 5)

	w = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var prodResp struct {
		Products []models.ProductWithCategory `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prodResp))
	require.Len(t, prodResp.Products, 4)
	assert.Equal(t, "Café", prodResp.Products[0].Name)
	require.NotNil(t, prodResp.Products[0].CategoryName)
	assert.Equal(t, "Boissons", *prodResp.Products[0].CategoryName)
}

func TestRecordSaleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sales", gin.H{
		"lines": []gin.H{
			{"product_id": "prod_1", "product_name": "Café", "unit_price": 1500, "quantity": 2},
			{"product_id": "prod_3", "product_name": "Croissant", "unit_price": 2500, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale models.SaleWithItems
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, int64(5500), sale.Total)
	assert.Equal(t, 3, sale.ItemsCount)
	assert.NotEmpty(t, sale.TicketNumber)
	assert.Len(t, sale.Items, 2)

	// The sale shows up in the history listing
	w = doJSON(t, router, http.MethodGet, "/api/v1/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Sales []models.SaleWithItems `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Sales, 1)
	assert.Equal(t, sale.TicketNumber, listResp.Sales[0].TicketNumber)
}

func TestRecordSaleInsufficientStockConflict(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sales", gin.H{
		"lines": []gin.H{
			{"product_id": "prod_2", "product_name": "Thé", "unit_price": 1200, "quantity": 9999},
		},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Thé")
}

func TestRecordSaleRejectsEmptyCart(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sales", gin.H{"lines": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductLifecycleEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":        "Jus d'orange",
		"price":       3000,
		"category_id": "cat_1",
		"stock":       12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	newPrice := int64(3200)
	w = doJSON(t, router, http.MethodPatch, "/api/v1/products/"+created.ID, gin.H{
		"price": newPrice,
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/products/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Gone from the active listing
	w = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), created.ID)
}

func TestProductValidationAndNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":  "Soda",
		"price": 2000,
		"stock": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/products/no-such-product", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSalesSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sales", gin.H{
		"lines": []gin.H{
			{"product_id": "prod_1", "product_name": "Café", "unit_price": 1500, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sales/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary models.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.SalesCount)
	assert.Equal(t, int64(1500), summary.Revenue)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sales/summary?date=2000-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Zero(t, summary.SalesCount)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sales/summary?date=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var settings models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "Cafétéria", settings.Name)

	phone := "71 000 000"
	settings.Name = "Cafétéria Centrale"
	settings.Phone = &phone
	w = doJSON(t, router, http.MethodPut, "/api/v1/settings", settings)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "Cafétéria Centrale", settings.Name)
	require.NotNil(t, settings.Phone)
	assert.Equal(t, phone, *settings.Phone)
}

func TestListPrintersEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/printers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Printers []models.Printer `json:"printers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Printers, 2)
	assert.Equal(t, "PDF", resp.Printers[1].Name)
	assert.True(t, resp.Printers[1].IsDefault)
}
