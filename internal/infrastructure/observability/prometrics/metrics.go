// Package prometrics backs the observability metric ports with Prometheus vectors.
package prometrics

import (
	"errors"
	"sync"

	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry hands out named instruments. Asking twice for the same name
// returns the same underlying vector.
type Registry interface {
	Counter(name string, help string, labelKeys ...string) observability.Counter
	Histogram(name string, help string, buckets []float64, labelKeys ...string) observability.Histogram
}

type registry struct {
	mu         sync.Mutex
	reg        prometheus.Registerer
	namespace  string
	subsystem  string
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// New registers instruments on reg; nil means prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace, subsystem string) Registry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &registry{
		reg:        reg,
		namespace:  namespace,
		subsystem:  subsystem,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (r *registry) Counter(name string, help string, labelKeys ...string) observability.Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.counters[name]
	if !ok {
		cv = register(r.reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: r.namespace,
			Subsystem: r.subsystem,
			Name:      name,
			Help:      help,
		}, labelKeys))
		r.counters[name] = cv
	}
	return counterVec{cv}
}

func (r *registry) Histogram(name string, help string, buckets []float64, labelKeys ...string) observability.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	hv, ok := r.histograms[name]
	if !ok {
		if len(buckets) == 0 {
			buckets = prometheus.DefBuckets
		}
		hv = register(r.reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: r.namespace,
			Subsystem: r.subsystem,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		}, labelKeys))
		r.histograms[name] = hv
	}
	return histogramVec{hv}
}

// register adopts a collector that another Registry already put on reg, so
// two services sharing prometheus.DefaultRegisterer do not panic.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		if existing, ok := dup.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

type counterVec struct{ v *prometheus.CounterVec }

func (c counterVec) Add(d float64, labels ...observability.Label) {
	c.v.With(labelMap(labels)).Add(d)
}

// Bind resolves the child series once; prometheus.Counter already satisfies BoundCounter.
func (c counterVec) Bind(labels ...observability.Label) observability.BoundCounter {
	return c.v.With(labelMap(labels))
}

type histogramVec struct{ v *prometheus.HistogramVec }

func (h histogramVec) Observe(v float64, labels ...observability.Label) {
	h.v.With(labelMap(labels)).Observe(v)
}

func (h histogramVec) Bind(labels ...observability.Label) observability.BoundHistogram {
	return h.v.With(labelMap(labels))
}

func labelMap(ls []observability.Label) prometheus.Labels {
	m := make(prometheus.Labels, len(ls))
	for _, l := range ls {
		m[l.Key] = l.Value
	}
	return m
}

// Instruments registers every MetricSpec and keys the results for observability.New.
func Instruments(r Registry, counters, histograms []observability.MetricSpec) (
	map[observability.MetricKey]observability.Counter,
	map[observability.MetricKey]observability.Histogram,
) {
	cs := make(map[observability.MetricKey]observability.Counter, len(counters))
	for _, s := range counters {
		cs[s.Key] = r.Counter(string(s.Key), s.Help, s.LabelKeys...)
	}
	hs := make(map[observability.MetricKey]observability.Histogram, len(histograms))
	for _, s := range histograms {
		hs[s.Key] = r.Histogram(string(s.Key), s.Help, s.Buckets, s.LabelKeys...)
	}
	return cs, hs
}
