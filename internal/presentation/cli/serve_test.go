package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	opts := &rootOptions{settings: config.Settings{
		ServiceName: "minishop-catalog",
		Env:         "test",
		LogLevel:    "error",
		LogOutputs:  []string{"stderr"},
		HTTPAddr:    "127.0.0.1:0",
	}}
	a, err := opts.newApp()
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestRoutes_MetricsAfterOrder(t *testing.T) {
	srv := httptest.NewServer(newTestApp(t).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/orders", "application/json",
		strings.NewReader(`{"lines":[{"name":"Google Pixel 7","quantity":1},{"name":"Ghost","quantity":1}]}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	metrics := string(body)
	assert.Contains(t, metrics, `order_lines_total{status="ok"} 1`)
	assert.Contains(t, metrics, `order_lines_total{status="unknown_product"} 1`)
	assert.Contains(t, metrics, `http_requests_total{method="POST",route="/orders",status="201"} 1`)
	assert.Contains(t, metrics, "go_goroutines")
}

func TestServe_StopsWhenContextDone(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestParseLines(t *testing.T) {
	lines, err := parseLines([]string{"MacBook Air M2=2", " Shipping = 1 "})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "MacBook Air M2", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Shipping", lines[1].Name)

	_, err = parseLines([]string{"=3"})
	assert.ErrorIs(t, err, errLineFormat)
}
