package cli

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application/shop"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/config"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability/logctx"
	"github.com/Zhima-Mochi/minishop-catalog/internal/pkg/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// app is everything one command run needs, built from the resolved settings.
type app struct {
	settings config.Settings
	base     *zap.Logger
	system   observability.Logger
	tel      observability.Observability
	registry *prometheus.Registry
	shop     *shop.Service
}

func (o *rootOptions) newApp() (*app, error) {
	settings := o.settings

	base, err := logging.NewLogger(settings.Logging())
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	zap.ReplaceGlobals(base)
	system := zaplogger.FromZap(logging.WithTrace(base, logging.SystemTraceID, logging.SystemSpanID))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	tel, _, err := infraobs.Setup(infraobs.Options{
		Logger:     base,
		Registerer: registry,
		TracerName: settings.ServiceName,
	})
	if err != nil {
		_ = base.Sync()
		return nil, err
	}

	cat, err := config.LoadCatalog(settings.CatalogFile)
	if err != nil {
		_ = base.Sync()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	st, err := cat.Build()
	if err != nil {
		_ = base.Sync()
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	source := settings.CatalogFile
	if source == "" {
		source = "built-in"
	}
	system.Debug("catalog_loaded",
		observability.F("source", source),
		observability.F("products", st.Len()),
		observability.F("promotions", len(cat.Promotions)),
	)

	return &app{
		settings: settings,
		base:     base,
		system:   system,
		tel:      tel,
		registry: registry,
		shop:     shop.NewService(st, memory.NewReceiptRepository(), id.NewUUIDGenerator(), tel),
	}, nil
}

func (a *app) close() {
	_ = a.base.Sync()
}

// withCommandContext injects a logger scoped to one command run. Fields are
// command_id (generated), command, and trace_id/span_id when a span is active.
func withCommandContext(ctx context.Context, base observability.Logger, command string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	fields := []observability.Field{
		observability.F("command_id", uuid.NewString()),
		observability.F("command", command),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	ctx, _ = logctx.Enrich(ctx, base, fields...)
	return ctx
}
