package httppresentation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application/shop"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/config"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	httppresentation "github.com/Zhima-Mochi/minishop-catalog/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type server struct {
	handler http.Handler
	reg     *prometheus.Registry
	logs    *observer.ObservedLogs
}

func newServer(t *testing.T) *server {
	t.Helper()
	c, err := config.DefaultCatalog()
	require.NoError(t, err)
	st, err := c.Build()
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	counters, histograms := prometrics.Instruments(prometrics.New(reg, "", ""),
		observability.CounterSpecs, observability.HistogramSpecs)
	tel := infraobs.New(nil, zaplogger.FromZap(zap.New(core)), counters, histograms)

	svc := shop.NewService(st, memory.NewReceiptRepository(), id.NewUUIDGenerator(), tel)
	return &server{
		handler: httppresentation.NewHandler(svc, tel).Router(),
		reg:     reg,
		logs:    logs,
	}
}

func (s *server) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type product struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Active    bool   `json:"active"`
	Maximum   int    `json:"maximum"`
	Promotion string `json:"promotion"`
	Display   string `json:"display"`
}

type orderLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	Price     string `json:"price"`
	Reason    string `json:"reason"`
	Available *int   `json:"available"`
	Maximum   *int   `json:"maximum"`
}

type order struct {
	OrderID   string      `json:"order_id"`
	Total     string      `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Lines     []orderLine `json:"lines"`
}

func TestListProducts(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	products := decode[[]product](t, rec)
	require.Len(t, products, 5)
	assert.Equal(t, "MacBook Air M2", products[0].Name)
	assert.Equal(t, "1450", products[0].Price)
	assert.Equal(t, "Second Half price!", products[0].Promotion)
	assert.Equal(t, "non_stocked", products[3].Kind)
	assert.Equal(t, 1, products[4].Maximum)
	assert.Equal(t, "Shipping, Price: $10, Quantity: 250, Purchasable: 1", products[4].Display)
}

func TestTotalQuantity(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/products/total", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_quantity":1100}`, rec.Body.String())
}

func TestPlaceOrder_PartialFailure(t *testing.T) {
	s := newServer(t)
	body := `{"lines":[
		{"name":"MacBook Air M2","quantity":2},
		{"name":"Shipping","quantity":3},
		{"name":"Google Pixel 7","quantity":251},
		{"name":"Windows License","quantity":1},
		{"name":"Nope","quantity":1}
	]}`
	rec := s.do(t, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[order](t, rec)
	assert.NotEmpty(t, got.OrderID)
	assert.Equal(t, "2262.5", got.Total)
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 3, got.Failed)
	require.Len(t, got.Lines, 5)

	assert.Equal(t, "ok", got.Lines[0].Status)
	assert.Equal(t, "2175", got.Lines[0].Price)
	assert.Empty(t, got.Lines[0].Reason)

	assert.Equal(t, "limit_exceeded", got.Lines[1].Status)
	require.NotNil(t, got.Lines[1].Maximum)
	assert.Equal(t, 1, *got.Lines[1].Maximum)

	assert.Equal(t, "insufficient_stock", got.Lines[2].Status)
	require.NotNil(t, got.Lines[2].Available)
	assert.Equal(t, 250, *got.Lines[2].Available)
	assert.Equal(t, "Not enough stock for Google Pixel 7. Available quantity: 250", got.Lines[2].Reason)

	assert.Equal(t, "87.5", got.Lines[3].Price)
	assert.Equal(t, "unknown_product", got.Lines[4].Status)

	rec = s.do(t, http.MethodGet, "/orders/"+got.OrderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[order](t, rec)
	assert.Equal(t, got.Total, stored.Total)
	assert.Len(t, stored.Lines, 5)

	rec = s.do(t, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]order](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/products/MacBook%20Air%20M2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 98, decode[product](t, rec).Quantity)
}

func TestPlaceOrder_BadRequest(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `lines`},
		{"unknown field", `{"items":[]}`},
		{"wrong type", `{"lines":[{"name":"Shipping","quantity":"one"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPlaceOrder_EmptyList(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/orders", `{"lines":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[order](t, rec)
	assert.Equal(t, "0", got.Total)
	assert.Empty(t, got.Lines)
}

func TestGetOrder_NotFound(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPatch, "/products/Google%20Pixel%207", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[product](t, rec).Active)

	rec = s.do(t, http.MethodGet, "/products", "")
	assert.Len(t, decode[[]product](t, rec), 4)

	rec = s.do(t, http.MethodPatch, "/products/Google%20Pixel%207", `{"quantity":5,"active":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[product](t, rec)
	assert.Equal(t, 5, p.Quantity)
	assert.True(t, p.Active)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, "/products/Shipping", `{"quantity":-4}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, "/products/Shipping", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPatch, "/products/Ghost", `{"active":true}`).Code)
}

func TestRemoveProduct(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/products/Shipping", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/products/Shipping", "").Code)

	// Removing an unknown product only warns.
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/products/Shipping", "").Code)
	assert.Equal(t, 1, s.logs.FilterMessage("product_not_found").Len())
}

func TestMethodNotAllowed(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPut, "/orders", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestObservability_RequestIDAndAccessLog(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", "X-Request-ID", "req-42")
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = s.do(t, http.MethodGet, "/products/total", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	access := s.logs.FilterMessage("http_access").All()
	require.Len(t, access, 2)
	first := access[0].ContextMap()
	assert.Equal(t, "req-42", first["request_id"])
	assert.Equal(t, "/health", first["route"])
	assert.Equal(t, "http_server", first["component"])
	assert.Equal(t, "/products/total", access[1].ContextMap()["route"])

	series, err := testutil.GatherAndCount(s.reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestObservability_TraceContextPropagation(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	s := newServer(t)
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	s.do(t, http.MethodGet, "/health", "", "traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")

	access := s.logs.FilterMessage("http_access").All()
	require.Len(t, access, 1)
	assert.Equal(t, traceID, access[0].ContextMap()["trace_id"])
}
