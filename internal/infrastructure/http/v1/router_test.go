package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/internal/app"
	"pharmacy/internal/config"
	v1 "pharmacy/internal/infrastructure/http/v1"
	"pharmacy/internal/infrastructure/http/v1/handlers"
	"pharmacy/internal/infrastructure/storage/memory"
	"pharmacy/pkg/logger"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T, checks ...handlers.Check) *apiClient {
	t.Helper()

	store := memory.New()
	cfg := config.Config{
		MedicineDefaultLocation: "main-shelf",
		MedicineDefaultCategory: "general",
	}
	services := app.NewServices(app.MemoryRepositories(store), cfg, nil)

	checks = append([]handlers.Check{{Name: "storage", Ping: store.Ping}}, checks...)
	health := handlers.NewHealthHandler(func() map[string]any {
		return map[string]any{"storage": "memory"}
	}, checks...)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:   logger.Nop(),
		Services: services,
		Health:   health,
		Mode:     gin.TestMode,
	})
	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()

	status, raw := a.raw(method, path, body)
	if raw == nil {
		return status, nil
	}
	var out map[string]any
	require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

// raw returns the response body only when it is JSON.
func (a *apiClient) raw(method, path string, body any) (int, []byte) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Body.Len() == 0 || !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		return w.Code, nil
	}
	return w.Code, w.Body.Bytes()
}

// seedPurchase creates a supplier and a product, then buys qty units of it.
// It returns the product id and the purchase invoice id.
func (a *apiClient) seedPurchase(qty int) (string, string) {
	a.t.Helper()

	status, sup := a.do(http.MethodPost, "/api/v1/suppliers", map[string]any{
		"name":  "MediSupply",
		"email": "orders@medisupply.com",
	})
	require.Equal(a.t, http.StatusCreated, status, sup)

	status, prod := a.do(http.MethodPost, "/api/v1/products", map[string]any{
		"supplierId": sup["id"],
		"brandName":  "Bayer",
		"name":       "Aspirin",
		"price":      "12.50",
		"expiryDate": "2027-01-01",
	})
	require.Equal(a.t, http.StatusCreated, status, prod)
	assert.EqualValues(a.t, 0, prod["quantity"])

	status, inv := a.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"date":  "2024-05-01",
		"type":  "purchase",
		"items": []map[string]any{{"productId": prod["id"], "quantity": qty}},
	})
	require.Equal(a.t, http.StatusCreated, status, inv)
	return prod["id"].(string), inv["id"].(string)
}

func (a *apiClient) onlyMedicine() map[string]any {
	a.t.Helper()
	status, list := a.do(http.MethodGet, "/api/v1/medicines", nil)
	require.Equal(a.t, http.StatusOK, status)
	items := list["items"].([]any)
	require.Len(a.t, items, 1)
	return items[0].(map[string]any)
}

func TestInvoiceLifecycle(t *testing.T) {
	api := newAPI(t)
	productID, purchaseID := api.seedPurchase(10)

	status, purchase := api.do(http.MethodGet, "/api/v1/invoices/"+purchaseID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "125.00", purchase["totalAmount"])
	assert.Equal(t, "2024-05-01", purchase["date"])

	status, prod := api.do(http.MethodGet, "/api/v1/products/"+productID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 10, prod["quantity"])

	med := api.onlyMedicine()
	assert.Equal(t, "Aspirin", med["name"])
	assert.EqualValues(t, 10, med["quantity"])
	assert.Equal(t, "12.50", med["price"])
	assert.Equal(t, "main-shelf", med["location"])

	status, brands := api.do(http.MethodGet, "/api/v1/brands", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, brands["totalCount"])

	status, sale := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"date":  "2024-05-02",
		"type":  "sale",
		"items": []map[string]any{{"medicineId": med["id"], "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, status, sale)
	assert.Equal(t, "37.50", sale["totalAmount"])
	assert.EqualValues(t, 7, api.onlyMedicine()["quantity"])

	saleID := sale["id"].(string)
	status, updated := api.do(http.MethodPut, "/api/v1/invoices/"+saleID, map[string]any{
		"date":  "2024-05-03",
		"items": []map[string]any{{"medicineId": med["id"], "quantity": 5}},
	})
	require.Equal(t, http.StatusOK, status, updated)
	assert.Equal(t, "62.50", updated["totalAmount"])
	assert.Equal(t, "2024-05-03", updated["date"])
	assert.EqualValues(t, 5, api.onlyMedicine()["quantity"])

	status, list := api.do(http.MethodGet, "/api/v1/invoices?type=sale", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, list["totalCount"])

	status, _ = api.do(http.MethodDelete, "/api/v1/invoices/"+saleID, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.EqualValues(t, 10, api.onlyMedicine()["quantity"])

	status, body := api.do(http.MethodGet, "/api/v1/invoices/"+saleID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestInvoiceInsufficientStock(t *testing.T) {
	api := newAPI(t)
	api.seedPurchase(2)
	med := api.onlyMedicine()

	status, body := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"date":  "2024-05-02",
		"type":  "sale",
		"items": []map[string]any{{"medicineId": med["id"], "quantity": 5}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	details := body["details"].(map[string]any)
	assert.Equal(t, med["id"], details["id"])
	assert.EqualValues(t, 5, details["requested"])
	assert.EqualValues(t, 2, details["available"])

	assert.EqualValues(t, 2, api.onlyMedicine()["quantity"])
	status, list := api.do(http.MethodGet, "/api/v1/invoices?type=sale", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, list["totalCount"])
}

func TestPurchaseReversalBlockedBySales(t *testing.T) {
	api := newAPI(t)
	_, purchaseID := api.seedPurchase(4)
	med := api.onlyMedicine()

	status, _ := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"date":  "2024-05-02",
		"type":  "sale",
		"items": []map[string]any{{"medicineId": med["id"], "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := api.do(http.MethodDelete, "/api/v1/invoices/"+purchaseID, nil)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "NEGATIVE_STOCK", body["code"])
	assert.EqualValues(t, 1, api.onlyMedicine()["quantity"])
}

func TestInvoiceRequestValidation(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
		tag   string
	}{
		{
			name:  "zero quantity",
			body:  map[string]any{"date": "2024-05-01", "type": "sale", "items": []map[string]any{{"quantity": 0}}},
			field: "CreateInvoiceRequest.Items[0].Quantity",
			tag:   "gt",
		},
		{
			name:  "quantity over limit",
			body:  map[string]any{"date": "2024-05-01", "type": "sale", "items": []map[string]any{{"quantity": 1_000_000_001}}},
			field: "CreateInvoiceRequest.Items[0].Quantity",
			tag:   "lte",
		},
		{
			name:  "unknown type",
			body:  map[string]any{"date": "2024-05-01", "type": "refund", "items": []map[string]any{{"quantity": 1}}},
			field: "CreateInvoiceRequest.Type",
			tag:   "oneof",
		},
		{
			name:  "no items",
			body:  map[string]any{"date": "2024-05-01", "type": "sale"},
			field: "CreateInvoiceRequest.Items",
			tag:   "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(http.MethodPost, "/api/v1/invoices", tt.body)
			require.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])

			fields := body["details"].(map[string]any)["fields"].(map[string]any)
			assert.Equal(t, tt.tag, fields[tt.field])
		})
	}

	t.Run("bad date", func(t *testing.T) {
		status, body := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
			"date":  "01/05/2024",
			"type":  "sale",
			"items": []map[string]any{{"quantity": 1, "medicineId": "0190a0e4-0000-7000-8000-000000000001"}},
		})
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})

	t.Run("bad id", func(t *testing.T) {
		status, body := api.do(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})
}

func TestInvoiceHistory(t *testing.T) {
	api := newAPI(t)
	_, purchaseID := api.seedPurchase(5)
	med := api.onlyMedicine()

	status, sale := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"date":  "2024-05-02",
		"type":  "sale",
		"items": []map[string]any{{"medicineId": med["id"], "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, status)
	saleID := sale["id"].(string)

	status, _ = api.do(http.MethodPut, "/api/v1/invoices/"+saleID, map[string]any{
		"date":  "2024-05-02",
		"items": []map[string]any{{"medicineId": med["id"], "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodDelete, "/api/v1/invoices/"+saleID, nil)
	require.Equal(t, http.StatusNoContent, status)

	var history []struct {
		Action  string         `json:"action"`
		Changes map[string]any `json:"changes"`
	}
	status, raw := api.raw(http.MethodGet, "/api/v1/invoices/"+saleID+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 3, "the trail outlives the invoice")
	assert.Equal(t, "delete", history[0].Action)
	assert.Equal(t, "update", history[1].Action)
	assert.Equal(t, "create", history[2].Action)
	assert.Equal(t, "sale", history[2].Changes["type"])

	status, raw = api.raw(http.MethodGet, "/api/v1/invoices/"+saleID+"/history?limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &history))
	assert.Len(t, history, 1)

	status, raw = api.raw(http.MethodGet, "/api/v1/invoices/"+purchaseID+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "create", history[0].Action)

	status, body := api.do(http.MethodGet, "/api/v1/invoices/0190a0e4-0000-7000-8000-000000000001/history", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestCatalogRoutes(t *testing.T) {
	api := newAPI(t)

	status, _ := api.do(http.MethodPost, "/api/v1/medicines", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body := api.do(http.MethodPost, "/api/v1/products", map[string]any{
		"supplierId": "0190a0e4-0000-7000-8000-000000000001",
		"brandName":  "Bayer",
		"name":       "Aspirin",
		"price":      "1.00",
		"expiryDate": "2027-01-01",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = api.do(http.MethodPost, "/api/v1/customers", map[string]any{"name": "Jane Roe"})
	require.Equal(t, http.StatusCreated, status, body)

	status, list := api.do(http.MethodGet, "/api/v1/customers?search=jane", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, list["totalCount"])
}

func TestHealth(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = api.do(http.MethodGet, "/health/info", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "memory", body["storage"])

	down := newAPI(t, handlers.Check{Name: "cache", Ping: func(context.Context) error {
		return errors.New("connection refused")
	}})
	status, body = down.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["storage"])
	assert.Contains(t, checks["cache"], "connection refused")
}
