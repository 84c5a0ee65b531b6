package receipt

import (
	"context"
	"errors"
	"time"

	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("receipt: not found")
	ErrConflict  = errors.New("receipt: already exists")
	ErrMissingID = errors.New("receipt: id is required")
)

// Receipt records the outcome of one processed order.
type Receipt struct {
	ID        string
	Lines     []store.LineResult
	Total     decimal.Decimal
	CreatedAt time.Time
}

func New(id string, report *store.Report) (*Receipt, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	r := &Receipt{
		ID:        id,
		Total:     decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	if report != nil {
		r.Lines = append([]store.LineResult(nil), report.Lines...)
		r.Total = report.Total
	}
	return r, nil
}

// Clone returns a copy that shares no slices with r.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Lines = append([]store.LineResult(nil), r.Lines...)
	return &clone
}

type Repository interface {
	Insert(ctx context.Context, r *Receipt) error
	Get(ctx context.Context, id string) (*Receipt, error)
	// List returns receipts oldest first.
	List(ctx context.Context) ([]*Receipt, error)
}
