package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/receipt"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	shopService       = "shop-service"
	useCaseOrderPlace = "order.place"
	spanPrefix        = "UC."
)

var ErrRepository = errors.New("shop: repository failure")

type PlaceOrderInput struct {
	Lines []store.Line
}

type PlaceOrderResult struct {
	OrderID   string
	Report    *store.Report
	CreatedAt time.Time
}

var _ application.UseCase[PlaceOrderInput, *PlaceOrderResult] = (*PlaceOrderUseCase)(nil)

// PlaceOrderUseCase runs a shopping list through the store and records a receipt.
// It is not safe for concurrent use; Service serializes calls.
type PlaceOrderUseCase struct {
	store       *store.Store
	receipts    receipt.Repository
	idGenerator IDGenerator
	tracer      observability.Tracer

	log observability.Logger
	// RED metrics (supplied via DI; do not instantiate inside methods).
	reqCounter observability.Counter        // usecase_requests_total{use_case,outcome}
	duration   observability.BoundHistogram // usecase_duration_seconds{use_case="order.place"}

	lineCounter observability.Counter      // order_lines_total{status}
	revenue     observability.BoundCounter // order_revenue_total
}

func NewPlaceOrderUseCase(
	st *store.Store,
	receipts receipt.Repository,
	idGen IDGenerator,
	tel observability.Observability,
) *PlaceOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	duration := metrics.Histogram(observability.MUsecaseDuration).
		Bind(observability.L("use_case", useCaseOrderPlace))
	return &PlaceOrderUseCase{
		store:       st,
		receipts:    receipts,
		idGenerator: idGen,
		tracer:      tel.Tracer(),
		log:         tel.Logger().With(observability.F("service", shopService)),
		reqCounter:  metrics.Counter(observability.MUsecaseRequests),
		duration:    duration,
		lineCounter: metrics.Counter(observability.MOrderLines),
		revenue:     metrics.Counter(observability.MOrderRevenue).Bind(),
	}
}

// Execute processes every line independently. Skipped lines are reported in the
// result and logged; only a canceled context or a failure to record the receipt
// is returned as an error, and by then stock has already been taken.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	ctx, logger := logctx.Enrich(ctx, uc.log, observability.F("use_case", useCaseOrderPlace))

	ctx, span := uc.tracer.Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("use_case", useCaseOrderPlace),
		attribute.Int("order.lines", len(cmd.Lines)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var report *store.Report

	defer func() {
		lat := time.Since(start).Seconds()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		uc.reqCounter.Add(1,
			observability.L("use_case", useCaseOrderPlace),
			observability.L("outcome", outcome),
		)
		uc.duration.Observe(lat)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
			observability.F("lines", len(cmd.Lines)),
		}
		if report != nil {
			fields = append(fields,
				observability.F("lines_succeeded", report.Succeeded()),
				observability.F("lines_failed", report.Failed()),
				observability.F("total", report.Total.String()),
			)
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if err := ctx.Err(); err != nil {
		outcome, statusText = "error", "CONTEXT_CANCELED"
		return nil, err
	}

	orderID := uc.idGenerator.NewID()
	logger = logger.With(observability.F("order_id", orderID))
	span.SetAttributes(attribute.String("order.id", orderID))

	report = uc.store.Order(cmd.Lines)
	for i, line := range report.Lines {
		uc.lineCounter.Add(1, observability.L("status", string(line.Status)))
		span.AddEvent("order.line",
			trace.WithAttributes(
				attribute.Int("line.index", i),
				attribute.String("product.name", line.Line.Name),
				attribute.Int("line.quantity", line.Line.Quantity),
				attribute.String("line.status", string(line.Status)),
			),
		)
		if line.OK() {
			continue
		}
		fields := []observability.Field{
			observability.F("line", i),
			observability.F("product", line.Line.Name),
			observability.F("quantity", line.Line.Quantity),
			observability.F("line_status", string(line.Status)),
			observability.F("reason", line.Reason()),
		}
		if line.Err != nil {
			fields = append(fields, observability.F("error", line.Err))
		}
		logger.Warn("order_line_skipped", fields...)
	}
	// Counters cannot decrease; a non-positive total adds nothing.
	if report.Total.IsPositive() {
		uc.revenue.Add(report.Total.InexactFloat64())
	}

	if report.Failed() > 0 {
		statusText = "PARTIAL"
		if report.Succeeded() == 0 && len(report.Lines) > 0 {
			statusText = "NOTHING_PURCHASED"
		}
	}

	rec, derr := receipt.New(orderID, report)
	if derr != nil {
		outcome, statusText = "error", "RECEIPT_CONSTRUCTION_FAILED"
		return nil, fmt.Errorf("shop: receipt: %w", derr)
	}
	if err := uc.receipts.Insert(ctx, rec); err != nil {
		outcome, statusText = "error", "RECEIPT_INSERT_FAILED"
		return nil, wrapRepositoryError(err)
	}

	span.SetAttributes(attribute.String("order.total", report.Total.String()))
	return &PlaceOrderResult{OrderID: orderID, Report: report, CreatedAt: rec.CreatedAt}, nil
}

func wrapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, receipt.ErrNotFound):
		return receipt.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}
