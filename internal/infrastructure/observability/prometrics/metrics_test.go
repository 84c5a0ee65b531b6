package prometrics_test

import (
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_RegistersOnceAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := prometrics.New(reg, "minishop", "")

	c := r.Counter("order_lines_total", "lines", "status")
	c.Add(1, observability.L("status", "ok"))
	again := r.Counter("order_lines_total", "lines", "status")
	again.Add(2, observability.L("status", "ok"))
	again.Bind(observability.L("status", "limit_exceeded")).Add(1)

	n, err := testutil.GatherAndCount(reg, "minishop_order_lines_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	var okTotal float64
	for _, m := range mfs[0].GetMetric() {
		if m.GetLabel()[0].GetValue() == "ok" {
			okTotal = m.GetCounter().GetValue()
		}
	}
	assert.InDelta(t, 3.0, okTotal, 0.0001)
}

func TestInstruments_RegistersSpecs(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := prometrics.Instruments(
		prometrics.New(reg, "", ""),
		observability.CounterSpecs,
		observability.HistogramSpecs,
	)
	require.Len(t, counters, len(observability.CounterSpecs))
	require.Len(t, histograms, len(observability.HistogramSpecs))

	histograms[observability.MUsecaseDuration].Bind(observability.L("use_case", "order.place")).Observe(0.2)
	counters[observability.MOrderRevenue].Add(42)

	n, err := testutil.GatherAndCount(reg, "usecase_duration_seconds", "order_revenue_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNew_SharedRegistererReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := prometrics.New(reg, "shop", "")
	second := prometrics.New(reg, "shop", "")

	first.Counter("orders_total", "orders").Add(1)
	require.NotPanics(t, func() {
		second.Counter("orders_total", "orders").Add(2)
		second.Histogram("order_seconds", "latency", nil).Observe(0.1)
		first.Histogram("order_seconds", "latency", nil).Observe(0.3)
	})

	expected := `
# HELP shop_orders_total orders
# TYPE shop_orders_total counter
shop_orders_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "shop_orders_total"))

	n, err := testutil.GatherAndCount(reg, "shop_order_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_ConflictingHelpPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometrics.New(reg, "", "").Counter("orders_total", "orders")
	assert.Panics(t, func() {
		prometrics.New(reg, "", "").Counter("orders_total", "something else")
	})
}
