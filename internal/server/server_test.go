package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autocentru/dealer/internal/cache"
	"github.com/autocentru/dealer/internal/store"
	"github.com/autocentru/dealer/pkg/finance"
	"go.uber.org/zap"
)

const testAdminToken = "test-token"

func newTestServer(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(zap.NewNop(), Options{
		Store:      mem,
		Cache:      cache.NewMemory(),
		AdminToken: testAdminToken,
	})
	return h, mem
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedVehicle(t *testing.T, mem *store.Memory, marca, model string, pret float64, an int) store.StockVehicle {
	t.Helper()
	v := store.StockVehicle{Marca: marca, Model: model, Pret: pret, An: an, Combustibil: "diesel"}
	if err := mem.CreateVehicle(context.Background(), &v); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return v
}

func TestHealthAndVersion(t *testing.T) {
	h, _ := newTestServer(t)

	if rec := doJSON(t, h, http.MethodGet, "/api/health", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, expected 200", rec.Code)
	}
	rec := doJSON(t, h, http.MethodGet, "/api/version", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("version status = %d, expected 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if body["version"] != "dev" {
		t.Errorf("version = %q, expected dev", body["version"])
	}
}

func TestStockListFilterAndSort(t *testing.T) {
	h, mem := newTestServer(t)
	seedVehicle(t, mem, "Dacia", "Duster", 15500, 2021)
	seedVehicle(t, mem, "BMW", "X5", 42000, 2019)
	seedVehicle(t, mem, "Volkswagen", "Golf", 21000, 2022)

	rec := doJSON(t, h, http.MethodGet, "/api/stock?sort=price_asc", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, expected 200", rec.Code)
	}
	var vehicles []store.StockVehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(vehicles) != 3 || vehicles[0].Model != "Duster" {
		t.Errorf("price_asc listing = %v, expected Duster first", vehicles)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/stock?marca=BMW", nil, "")
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].Marca != "BMW" {
		t.Errorf("brand filter returned %v, expected only BMW", vehicles)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/stock?maxPret=22000", nil, "")
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(vehicles) != 2 {
		t.Errorf("maxPret filter returned %d vehicles, expected 2", len(vehicles))
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/stock?sort=mileage", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad sort status = %d, expected 400", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/stock?maxPret=abc", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad maxPret status = %d, expected 400", rec.Code)
	}
}

// The listing is served from cache within its TTL, so a mutation right
// after a read does not show up immediately.
func TestStockListCaching(t *testing.T) {
	h, mem := newTestServer(t)
	seedVehicle(t, mem, "Dacia", "Logan", 9000, 2018)

	first := doJSON(t, h, http.MethodGet, "/api/stock", nil, "")
	if first.Code != http.StatusOK {
		t.Fatalf("first list status = %d", first.Code)
	}

	seedVehicle(t, mem, "BMW", "X1", 30000, 2020)

	second := doJSON(t, h, http.MethodGet, "/api/stock", nil, "")
	if second.Body.String() != first.Body.String() {
		t.Error("listing was not served from cache within TTL")
	}

	// A different query string bypasses the cached entry.
	fresh := doJSON(t, h, http.MethodGet, "/api/stock?sort=newest", nil, "")
	var vehicles []store.StockVehicle
	if err := json.Unmarshal(fresh.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(vehicles) != 2 {
		t.Errorf("fresh listing has %d vehicles, expected 2", len(vehicles))
	}
}

func TestStockDetail(t *testing.T) {
	h, mem := newTestServer(t)
	v := seedVehicle(t, mem, "Skoda", "Octavia", 17000, 2020)

	rec := doJSON(t, h, http.MethodGet, "/api/stock/"+v.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d, expected 200", rec.Code)
	}
	var got store.StockVehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode vehicle: %v", err)
	}
	if got.Model != "Octavia" {
		t.Errorf("detail model = %q, expected Octavia", got.Model)
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/stock/unknown-id", nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing vehicle status = %d, expected 404", rec.Code)
	}
}

func TestFinanceQuote(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/finance/quote",
		finance.QuoteRequest{Price: 20000, AnnualRatePercent: 6, TermMonths: 60}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("quote status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if resp.MonthlyPayment != 386.66 {
		t.Errorf("MonthlyPayment = %v, expected 386.66", resp.MonthlyPayment)
	}
	if resp.MonthlyPaymentDisplay != "€386.66" {
		t.Errorf("MonthlyPaymentDisplay = %q, expected €386.66", resp.MonthlyPaymentDisplay)
	}
	if resp.TotalAmountDisplay != "€23,199.60" {
		t.Errorf("TotalAmountDisplay = %q, expected €23,199.60", resp.TotalAmountDisplay)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/finance/quote",
		finance.QuoteRequest{Price: 20000, AnnualRatePercent: 6, TermMonths: 0}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid quote status = %d, expected 400", rec.Code)
	}
}

func TestFinanceQuoteDividePolicyZeroRate(t *testing.T) {
	h := NewHandler(zap.NewNop(), Options{
		Store:          store.NewMemory(),
		ZeroRatePolicy: finance.ZeroRatePolicyDivide,
	})

	rec := doJSON(t, h, http.MethodPost, "/api/finance/quote",
		finance.QuoteRequest{Price: 12000, AnnualRatePercent: 0, TermMonths: 12}, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero-rate divide status = %d, expected 422", rec.Code)
	}
}

func TestLeadSubmissionAndTriage(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/leads/finance", leadRequest{
		Name:    "Ion Popescu",
		Phone:   "0722123456",
		Details: map[string]string{"price": "20000", "termMonths": "60"},
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("lead create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var lead store.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
		t.Fatalf("decode lead: %v", err)
	}
	if lead.Status != "new" {
		t.Errorf("lead status = %q, expected new", lead.Status)
	}

	// Admin sees it, processes it.
	rec = doJSON(t, h, http.MethodGet, "/api/admin/leads/finance?status=new", nil, testAdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("lead list status = %d", rec.Code)
	}
	var leads []store.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &leads); err != nil {
		t.Fatalf("decode leads: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("lead list = %v, expected one lead", leads)
	}

	rec = doJSON(t, h, http.MethodPost,
		fmt.Sprintf("/api/admin/leads/finance/%s/status", lead.ID),
		statusRequest{Status: "processed"}, testAdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("lead status update = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/admin/leads/finance?status=new", nil, testAdminToken)
	if err := json.Unmarshal(rec.Body.Bytes(), &leads); err != nil {
		t.Fatalf("decode leads: %v", err)
	}
	if len(leads) != 0 {
		t.Errorf("leads still new after processing: %v", leads)
	}
}

func TestLeadValidation(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     interface{}
		expected int
	}{
		{"Unknown kind", "/api/leads/loyalty", leadRequest{Name: "A", Phone: "1"}, http.StatusNotFound},
		{"Missing name", "/api/leads/sell", leadRequest{Phone: "0722123456"}, http.StatusBadRequest},
		{"Missing contact info", "/api/leads/sell", leadRequest{Name: "Ion"}, http.StatusBadRequest},
		{"Email alone suffices", "/api/leads/order", leadRequest{Name: "Ion", Email: "i@example.com"}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doJSON(t, h, http.MethodPost, tt.path, tt.body, ""); rec.Code != tt.expected {
				t.Errorf("status = %d, expected %d", rec.Code, tt.expected)
			}
		})
	}
}

func TestContactMessageFlow(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/contact",
		leadRequest{Name: "Maria", Email: "maria@example.com", Message: "Intrebare"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("contact status = %d", rec.Code)
	}
	var msg store.ContactMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/admin/messages/"+msg.ID+"/status",
		statusRequest{Status: "processed"}, testAdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("message status update = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/admin/messages?status=processed", nil, testAdminToken)
	var msgs []store.ContactMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("processed messages = %v, expected one", msgs)
	}

	if rec := doJSON(t, h, http.MethodPost, "/api/contact", leadRequest{Name: "Maria"}, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d, expected 400", rec.Code)
	}
}

func TestAdminAuth(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{"Missing header", "", http.StatusUnauthorized},
		{"Not bearer", "Basic abc", http.StatusUnauthorized},
		{"Wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"Correct token", "Bearer " + testAdminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/leads/sell", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.expected {
				t.Errorf("status = %d, expected %d", rec.Code, tt.expected)
			}
		})
	}
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	h := NewHandler(zap.NewNop(), Options{Store: store.NewMemory()})

	rec := doJSON(t, h, http.MethodGet, "/api/admin/leads/sell", nil, "anything")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, expected 403 when admin token unset", rec.Code)
	}
}

func TestAdminStockCRUD(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/admin/stock",
		store.StockVehicle{Marca: "Audi", Model: "A4", Pret: 25000, An: 2021}, testAdminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created store.StockVehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode vehicle: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created vehicle has no id")
	}

	created.Pret = 24000
	rec = doJSON(t, h, http.MethodPut, "/api/admin/stock/"+created.ID, created, testAdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/admin/stock/"+created.ID, nil, testAdminToken)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/stock/"+created.ID, nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("detail after delete = %d, expected 404", rec.Code)
	}

	// Validation failures
	rec = doJSON(t, h, http.MethodPost, "/api/admin/stock",
		store.StockVehicle{Model: "A4", Pret: 25000}, testAdminToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing marca status = %d, expected 400", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/admin/stock",
		store.StockVehicle{Marca: "Audi", Model: "A4"}, testAdminToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero price status = %d, expected 400", rec.Code)
	}
}

func TestFormOptionsRoundTrip(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPut, "/api/admin/options/combustibil",
		optionsRequest{Values: []string{"benzina", "diesel", "hibrid"}}, testAdminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("options put status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/options/combustibil", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("options get status = %d", rec.Code)
	}
	var body struct {
		Key    string   `json:"key"`
		Values []string `json:"values"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(body.Values) != 3 || body.Values[0] != "benzina" {
		t.Errorf("options = %v, expected the stored values", body.Values)
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/options/unknown", nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown key status = %d, expected 404", rec.Code)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/catalog", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status = %d", rec.Code)
	}
	var entries []struct {
		Brand  string   `json:"brand"`
		Models []string `json:"models"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(entries) == 0 || entries[0].Brand != "Dacia" {
		t.Errorf("catalog = %v, expected Dacia first", entries)
	}
}
