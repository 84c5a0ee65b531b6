// Package logctx carries a request- or command-scoped logger on a context.
package logctx

import (
	"context"

	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
)

type ctxKey struct{}

// With returns ctx carrying logger. A nil logger leaves ctx unchanged.
func With(ctx context.Context, logger observability.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger stored on ctx, or nil.
func From(ctx context.Context) observability.Logger {
	if ctx == nil {
		return nil
	}
	l, _ := ctx.Value(ctxKey{}).(observability.Logger)
	return l
}

// FromOr is From with a fallback. It never returns nil.
func FromOr(ctx context.Context, fallback observability.Logger) observability.Logger {
	if l := From(ctx); l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return observability.NopLogger()
}

// Enrich derives a logger from the one on ctx (or base when ctx has none),
// adds fields, and stores the result back on the returned context.
func Enrich(ctx context.Context, base observability.Logger, fields ...observability.Field) (context.Context, observability.Logger) {
	l := FromOr(ctx, base)
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return With(ctx, l), l
}
