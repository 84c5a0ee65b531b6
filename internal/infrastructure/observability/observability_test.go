package observability_test

import (
	"testing"

	infraobs "github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_FallsBackToNop(t *testing.T) {
	tel := infraobs.New(nil, nil, nil, nil)
	require.NotNil(t, tel.Tracer())
	require.NotNil(t, tel.Logger())

	// Unknown keys must not panic.
	tel.Metrics().Counter("missing").Add(1)
	tel.Metrics().Histogram("missing").Observe(1)
	tel.Logger().Info("dropped")
}

func TestSetup_RegistersInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	tel, logger, err := infraobs.Setup(infraobs.Options{
		Logging:    logging.Config{Service: "minishop-catalog", Env: "test", Level: "error", Outputs: []string{"stderr"}},
		Registerer: reg,
		Namespace:  "minishop",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Sync() })

	tel.Metrics().Counter(observability.MOrderLines).Add(1, observability.L("status", "ok"))

	n, err := testutil.GatherAndCount(reg, "minishop_order_lines_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSetup_BadLevel(t *testing.T) {
	_, _, err := infraobs.Setup(infraobs.Options{
		Logging:    logging.Config{Level: "shouting"},
		Registerer: prometheus.NewRegistry(),
	})
	assert.Error(t, err)
}

func TestSetup_UsesSuppliedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tel, _, err := infraobs.Setup(infraobs.Options{
		Logging:    logging.Config{Level: "shouting"},
		Logger:     zap.New(core),
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	tel.Logger().Info("catalog_loaded")
	assert.Equal(t, 1, logs.FilterMessage("catalog_loaded").Len())
}
