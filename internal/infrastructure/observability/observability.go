package observability

import (
	"fmt"

	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

type registeredMetrics struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m *registeredMetrics) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := m.counters[name]; ok && c != nil {
		return c
	}
	return observability.NopCounter()
}

func (m *registeredMetrics) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := m.histograms[name]; ok && h != nil {
		return h
	}
	return observability.NopHistogram()
}

// New assembles an Observability provider backed by the supplied tracer, logger, and metric instruments.
// Missing pieces fall back to no-op implementations; unknown metric keys resolve to no-op instruments.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	counters map[observability.MetricKey]observability.Counter,
	histograms map[observability.MetricKey]observability.Histogram,
) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	m := &registeredMetrics{
		counters:   make(map[observability.MetricKey]observability.Counter, len(counters)),
		histograms: make(map[observability.MetricKey]observability.Histogram, len(histograms)),
	}
	for k, v := range counters {
		if v != nil {
			m.counters[k] = v
		}
	}
	for k, v := range histograms {
		if v != nil {
			m.histograms[k] = v
		}
	}
	return &provider{tracer: tracer, logger: logger, metrics: m}
}

func (p *provider) Tracer() observability.Tracer   { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }
func (p *provider) Metrics() observability.Metrics { return p.metrics }

// Options configures Setup.
type Options struct {
	Logging logging.Config
	// Logger, when set, is used instead of building one from Logging.
	Logger *zap.Logger
	// Registerer receives the application's instruments; nil means the default registry.
	Registerer prometheus.Registerer
	// Namespace prefixes every metric name.
	Namespace  string
	TracerName string
}

// Setup wires zap, Prometheus and OpenTelemetry into one provider.
// The returned logger must be synced on shutdown.
func Setup(opts Options) (observability.Observability, zaplogger.Logger, error) {
	var logger zaplogger.Logger
	if opts.Logger != nil {
		logger = zaplogger.FromZap(opts.Logger)
	} else {
		l, err := zaplogger.New(opts.Logging)
		if err != nil {
			return nil, nil, fmt.Errorf("observability: logger: %w", err)
		}
		logger = l
	}
	counters, histograms := prometrics.Instruments(
		prometrics.New(opts.Registerer, opts.Namespace, ""),
		observability.CounterSpecs,
		observability.HistogramSpecs,
	)
	return New(oteltrace.New(opts.TracerName), logger, counters, histograms), logger, nil
}
