package oteltrace_test

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/observability/oteltrace"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestFromProvider_StoresSpanOnContext(t *testing.T) {
	tr := oteltrace.FromProvider(noop.NewTracerProvider(), "")

	ctx, span := tr.Start(context.Background(), "UC.PlaceOrder", attribute.Int("order.lines", 3))
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.Equal(t, span, trace.SpanFromContext(ctx))
}

func TestNew_UsesGlobalProvider(t *testing.T) {
	_, span := oteltrace.New("").Start(context.Background(), "UC.PlaceOrder")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}
