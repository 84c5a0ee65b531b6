package zaplogger_test

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WithAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zaplogger.FromZap(zap.New(core)).With(observability.F("service", "shop"))

	log.Debug("d")
	log.Info("i", observability.F("quantity", 3))
	log.Warn("w", observability.F("error", errors.New("boom")))
	log.Error("e")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "shop", entries[1].ContextMap()["service"])
	assert.EqualValues(t, 3, entries[1].ContextMap()["quantity"])
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestFromZap_NilIsSafe(t *testing.T) {
	log := zaplogger.FromZap(nil)
	log.Info("ignored")
	assert.NoError(t, log.Sync())
}
