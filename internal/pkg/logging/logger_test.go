package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-catalog/internal/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shop.log")
	logger, err := logging.NewLogger(logging.Config{
		Service: "minishop-catalog",
		Env:     "test",
		Outputs: []string{"stderr"},
		File:    path,
	})
	require.NoError(t, err)

	logger.Info("catalog_loaded", zap.Int("products", 5))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"msg":"catalog_loaded"`)
	assert.Contains(t, line, `"service":"minishop-catalog"`)
	assert.Contains(t, line, `"env":"test"`)
	assert.Contains(t, line, `"level":"info"`)
	assert.Contains(t, line, `"ts":`)
}

func TestNewLogger_Level(t *testing.T) {
	logger, err := logging.NewLogger(logging.Config{Level: "warn", Outputs: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = logging.NewLogger(logging.Config{Level: "loud"})
	assert.Error(t, err)
}

func TestWithTrace_NormalisesEmptyIDs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.WithTrace(zap.New(core), "", logging.SystemSpanID)
	logger.Info("hello")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "unknown", ctx["trace_id"])
	assert.Equal(t, "system", ctx["span_id"])
}
