package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application/shop"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/receipt"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability/logctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	shop *shop.Service
	log  observability.Logger
	tel  observability.Observability

	requests observability.Counter
	duration observability.Histogram
}

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
	tracerName           = "minishop.http"
)

func NewHandler(svc *shop.Service, tel observability.Observability) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Handler{
		shop:     svc,
		log:      tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tel:      tel,
		requests: tel.Metrics().Counter(observability.MHTTPRequests),
		duration: tel.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// Trace → request logger → HTTP metrics → access log → handler
	h.muxHandle(mux, http.MethodGet, "/products", h.handleListProducts)
	h.muxHandle(mux, http.MethodGet, "/products/total", h.handleTotalQuantity)
	h.muxHandle(mux, http.MethodGet, "/products/{name}", h.handleGetProduct)
	h.muxHandle(mux, http.MethodPatch, "/products/{name}", h.handleUpdateProduct)
	h.muxHandle(mux, http.MethodDelete, "/products/{name}", h.handleRemoveProduct)
	h.muxHandle(mux, http.MethodPost, "/orders", h.handlePlaceOrder)
	h.muxHandle(mux, http.MethodGet, "/orders", h.handleListOrders)
	h.muxHandle(mux, http.MethodGet, "/orders/{id}", h.handleGetOrder)
	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)

	return mux
}

func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	wrapped := h.withTrace(
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string {
				return r.Header.Get(headerRequestID)
			},
		)(
			h.withHTTPMetrics(
				h.withAccessLog(http.HandlerFunc(handler)),
			),
		),
	)
	mux.HandleFunc(method+" "+route, func(w http.ResponseWriter, r *http.Request) {
		// Store stable route template for low-cardinality labels
		wrapped.ServeHTTP(w, r.WithContext(contextWithRoute(r.Context(), route)))
	})
}

type productResponse struct {
	Name          string          `json:"name"`
	Kind          catalog.Kind    `json:"kind"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Active        bool            `json:"active"`
	Maximum       int             `json:"maximum,omitempty"`
	Promotion     string          `json:"promotion,omitempty"`
	PromotionType string          `json:"promotion_type,omitempty"`
	Display       string          `json:"display"`
}

func toProductResponse(v shop.ProductView) productResponse {
	return productResponse{
		Name:          v.Name,
		Kind:          v.Kind,
		Price:         v.Price,
		Quantity:      v.Quantity,
		Active:        v.Active,
		Maximum:       v.Maximum,
		Promotion:     v.Promotion,
		PromotionType: string(v.PromotionType),
		Display:       v.Display,
	}
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	views := h.shop.ListProducts(r.Context())
	out := make([]productResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toProductResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

type totalQuantityResponse struct {
	TotalQuantity int `json:"total_quantity"`
}

func (h *Handler) handleTotalQuantity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, totalQuantityResponse{TotalQuantity: h.shop.TotalQuantity(r.Context())})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.shop.Product(r.Context(), r.PathValue("name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(view))
}

type updateProductRequest struct {
	Quantity *int  `json:"quantity"`
	Active   *bool `json:"active"`
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == nil && req.Active == nil {
		writeError(w, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	name := r.PathValue("name")
	view, err := h.shop.Product(r.Context(), name)
	if req.Quantity != nil && err == nil {
		view, err = h.shop.SetQuantity(r.Context(), name, *req.Quantity)
	}
	if req.Active != nil && err == nil {
		view, err = h.shop.SetActive(r.Context(), name, *req.Active)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(view))
}

func (h *Handler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.RemoveProduct(r.Context(), r.PathValue("name")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type orderLineRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type placeOrderRequest struct {
	Lines []orderLineRequest `json:"lines"`
}

type orderLineResponse struct {
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	Status    store.LineStatus `json:"status"`
	Price     decimal.Decimal  `json:"price"`
	Reason    string           `json:"reason,omitempty"`
	Available *int             `json:"available,omitempty"`
	Maximum   *int             `json:"maximum,omitempty"`
}

type orderResponse struct {
	OrderID   string              `json:"order_id"`
	Total     decimal.Decimal     `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Lines     []orderLineResponse `json:"lines"`
	CreatedAt time.Time           `json:"created_at"`
}

func toOrderResponse(id string, lines []store.LineResult, total decimal.Decimal, createdAt time.Time) orderResponse {
	resp := orderResponse{
		OrderID:   id,
		Total:     total,
		Lines:     make([]orderLineResponse, 0, len(lines)),
		CreatedAt: createdAt,
	}
	for _, l := range lines {
		line := orderLineResponse{
			Name:     l.Line.Name,
			Quantity: l.Line.Quantity,
			Status:   l.Status,
			Price:    l.Price,
			Reason:   l.Reason(),
		}
		switch l.Status {
		case store.LineInsufficientStock:
			line.Available = &l.Available
		case store.LineLimitExceeded:
			line.Maximum = &l.Maximum
		}
		if l.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}

func fromReceipt(rec *receipt.Receipt) orderResponse {
	return toOrderResponse(rec.ID, rec.Lines, rec.Total, rec.CreatedAt)
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	lines := make([]store.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, store.Line{Name: l.Name, Quantity: l.Quantity})
	}
	result, err := h.shop.PlaceOrder(r.Context(), shop.PlaceOrderInput{Lines: lines})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(result.OrderID, result.Report.Lines, result.Report.Total, result.CreatedAt))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.shop.Receipts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, fromReceipt(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	rec, err := h.shop.Receipt(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromReceipt(rec))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes.
// It relies on the request-scoped logger already injected by ObservabilityMiddleware.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		spanName := r.Method + " " + route
		if route == "unknown" {
			spanName = r.Method + " " + r.URL.Path
		}

		ctxWithSpan, span := otel.Tracer(tracerName).Start(parentCtx,
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

// withHTTPMetrics records RED metrics on the instruments resolved in NewHandler.
func (h *Handler) withHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		labels := []observability.Label{
			observability.L("method", r.Method),
			observability.L("route", routeFromContext(r.Context())),
			observability.L("status", strconv.Itoa(lrw.status)),
		}
		h.requests.Add(1, labels...)
		h.duration.Observe(time.Since(start).Seconds(), labels...)
	})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shop.ErrProductNotFound),
		errors.Is(err, shop.ErrReceiptNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, catalog.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, shop.ErrDuplicateProduct):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
