// Package application holds the use-case contract shared by the shop services.
package application

import "context"

// UseCase runs one command against the domain and reports its result.
// Implementations own their tracing, metrics and logging.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}
