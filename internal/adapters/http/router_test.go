package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/file"
	adapthttp "github.com/rafaelleal24/stockledger/internal/adapters/http"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/controllers"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/handlers"
	"github.com/rafaelleal24/stockledger/internal/core/service"
)

type testAPI struct {
	handler http.Handler
	store   *file.Store
}

func setupAPI(t *testing.T, checkers ...controllers.HealthChecker) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := file.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ledger := service.NewLedgerService(store, file.NewTransactionManager(store))
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	router := adapthttp.NewRouter(
		controllers.NewHealthController(checkers),
		controllers.NewProductController(ledger),
		controllers.NewTransactionController(ledger, 5),
		controllers.NewReportController(service.NewReportService(ledger)),
		nil,
		config.HTTPConfig{RateLimit: 60, RateWindow: time.Minute},
	)
	return &testAPI{handler: router.Handler(), store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func (a *testAPI) createTea(t *testing.T, quantity int) controllers.ProductResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Tea", "description": "Black tea", "category": "Beverage", "price": 15.50, "quantity": quantity,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decode[controllers.ProductResponse](t, rec)
}

func TestProducts(t *testing.T) {
	t.Run("create then list and get", func(t *testing.T) {
		api := setupAPI(t)
		tea := api.createTea(t, 20)

		if tea.Quantity != 20 || tea.TotalStocked != 20 || tea.TotalSold != 0 || tea.Price.String() != "15.50" {
			t.Fatalf("unexpected product: %+v", tea)
		}

		list := decode[[]controllers.ProductResponse](t, api.do(t, http.MethodGet, "/api/v1/products", nil))
		if len(list) != 1 || list[0].ID != tea.ID {
			t.Fatalf("unexpected list: %+v", list)
		}

		rec := api.do(t, http.MethodGet, "/api/v1/products/"+tea.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("get: expected 200, got %d", rec.Code)
		}
	})

	t.Run("create with missing fields lists them", func(t *testing.T) {
		api := setupAPI(t)
		rec := api.do(t, http.MethodPost, "/api/v1/products", map[string]any{"description": "x"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		resp := decode[handlers.ErrorResponse](t, rec)
		if len(resp.Fields) != 4 {
			t.Fatalf("expected 4 invalid fields, got %v", resp.Fields)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		api := setupAPI(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		api := setupAPI(t)
		tea := api.createTea(t, 20)

		rec := api.do(t, http.MethodPut, "/api/v1/products/"+tea.ID, map[string]any{"price": "16.25"})
		if rec.Code != http.StatusOK {
			t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if updated := decode[controllers.ProductResponse](t, rec); updated.Price.String() != "16.25" || updated.Name != "Tea" {
			t.Fatalf("unexpected update: %+v", updated)
		}

		if rec := api.do(t, http.MethodPut, "/api/v1/products/"+tea.ID, map[string]any{}); rec.Code != http.StatusBadRequest {
			t.Fatalf("empty update: expected 400, got %d", rec.Code)
		}

		rec = api.do(t, http.MethodDelete, "/api/v1/products/"+tea.ID, nil)
		if rec.Code != http.StatusOK || !decode[controllers.SuccessResponse](t, rec).Success {
			t.Fatalf("delete: expected success, got %d: %s", rec.Code, rec.Body.String())
		}

		if rec := api.do(t, http.MethodGet, "/api/v1/products/"+tea.ID, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("get after delete: expected 404, got %d", rec.Code)
		}
		if rec := api.do(t, http.MethodDelete, "/api/v1/products/"+tea.ID, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("second delete: expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactions(t *testing.T) {
	t.Run("sell then oversell", func(t *testing.T) {
		api := setupAPI(t)
		tea := api.createTea(t, 20)

		rec := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{"productId": tea.ID, "type": "sell", "quantity": 5})
		if rec.Code != http.StatusOK {
			t.Fatalf("sell: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		movement := decode[controllers.MovementResponse](t, rec)
		if !movement.Success || movement.Product.Quantity != 15 || movement.Product.TotalSold != 5 {
			t.Fatalf("unexpected movement: %+v", movement)
		}

		rec = api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{"productId": tea.ID, "type": "sell", "quantity": 100})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("oversell: expected 400, got %d", rec.Code)
		}
		resp := decode[handlers.ErrorResponse](t, rec)
		if resp.Available == nil || *resp.Available != 15 || resp.Requested == nil || *resp.Requested != 100 {
			t.Fatalf("expected available=15 requested=100, got %+v", resp)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		api := setupAPI(t)
		rec := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{"productId": "missing", "type": "add", "quantity": 1})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("recent and all", func(t *testing.T) {
		api := setupAPI(t)
		tea := api.createTea(t, 20)
		for i := 0; i < 6; i++ {
			rec := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{"productId": tea.ID, "type": "add", "quantity": i + 1})
			if rec.Code != http.StatusOK {
				t.Fatalf("add %d: got %d", i, rec.Code)
			}
		}

		recent := decode[[]controllers.TransactionResponse](t, api.do(t, http.MethodGet, "/api/v1/transactions", nil))
		if len(recent) != 5 || recent[0].Sequence != 3 || recent[4].Sequence != 7 {
			t.Fatalf("expected sequences 3..7, got %+v", recent)
		}

		two := decode[[]controllers.TransactionResponse](t, api.do(t, http.MethodGet, "/api/v1/transactions?limit=2", nil))
		if len(two) != 2 || two[1].Quantity != 6 {
			t.Fatalf("unexpected limited list: %+v", two)
		}

		if rec := api.do(t, http.MethodGet, "/api/v1/transactions?limit=zero", nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("bad limit: expected 400, got %d", rec.Code)
		}

		all := decode[[]controllers.TransactionResponse](t, api.do(t, http.MethodGet, "/api/v1/transactions/all", nil))
		if len(all) != 7 || all[0].Type != "add" || all[0].Quantity != 20 {
			t.Fatalf("unexpected full log: %+v", all)
		}
	})
}

func TestReports(t *testing.T) {
	api := setupAPI(t)
	tea := api.createTea(t, 20)
	api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{"productId": tea.ID, "type": "sell", "quantity": 17})

	summary := decode[controllers.SummaryResponse](t, api.do(t, http.MethodGet, "/api/v1/reports/summary", nil))
	if summary.TotalStockValue.String() != "46.50" || summary.TotalRevenue.String() != "263.50" {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.LowStock) != 1 || summary.LowStock[0].ProductID != tea.ID {
		t.Fatalf("expected tea in low stock, got %+v", summary.LowStock)
	}

	api.do(t, http.MethodPut, "/api/v1/products/"+tea.ID, map[string]any{"quantity": 50})
	report := decode[controllers.ReconciliationResponse](t, api.do(t, http.MethodGet, "/api/v1/reports/reconciliation", nil))
	if report.Consistent || len(report.Drifts) != 1 || report.Drifts[0].Recorded != 50 || report.Drifts[0].Replayed != 3 {
		t.Fatalf("expected quantity drift, got %+v", report)
	}
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		api := setupAPI(t, controllers.HealthChecker{Name: "storage", Check: func(ctx context.Context) error { return nil }})
		if rec := api.do(t, http.MethodGet, "/api/v1/health", nil); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		api := setupAPI(t, controllers.HealthChecker{Name: "redis", Check: func(ctx context.Context) error { return errors.New("down") }})
		rec := api.do(t, http.MethodGet, "/api/v1/health", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if resp := decode[controllers.HealthResponse](t, rec); resp.Services["redis"] != "down" {
			t.Fatalf("unexpected health: %+v", resp)
		}
	})
}

func TestTransactions_NumericLegacyProductID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	legacy := `[{"id": 1718000000000, "name": "Tea", "category": "Beverage", "price": 15.5, "quantity": 15, "totalStocked": 15}]`
	if err := os.WriteFile(filepath.Join(dir, "products.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	store, err := file.NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ledger := service.NewLedgerService(store, file.NewTransactionManager(store))
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	api := &testAPI{store: store, handler: adapthttp.NewRouter(
		controllers.NewHealthController(nil),
		controllers.NewProductController(ledger),
		controllers.NewTransactionController(ledger, 5),
		controllers.NewReportController(service.NewReportService(ledger)),
		nil,
		config.HTTPConfig{},
	).Handler()}

	rec := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"productId": 1718000000000, "type": "sell", "quantity": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[controllers.MovementResponse](t, rec)
	if resp.Product.ID != "1718000000000" || resp.Product.Quantity != 13 {
		t.Fatalf("unexpected product: %+v", resp.Product)
	}
}
