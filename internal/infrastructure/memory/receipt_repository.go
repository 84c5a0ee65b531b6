package memory

import (
	"context"
	"sync"

	domain "github.com/Zhima-Mochi/minishop-catalog/internal/domain/receipt"
)

type ReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.Receipt
	order    []string
}

func NewReceiptRepository() *ReceiptRepository {
	return &ReceiptRepository{
		receipts: make(map[string]*domain.Receipt),
	}
}

func (r *ReceiptRepository) Insert(ctx context.Context, receipt *domain.Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if receipt == nil || receipt.ID == "" {
		return domain.ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.receipts[receipt.ID]; exists {
		return domain.ErrConflict
	}
	r.receipts[receipt.ID] = receipt.Clone()
	r.order = append(r.order, receipt.ID)
	return nil
}

func (r *ReceiptRepository) Get(ctx context.Context, id string) (*domain.Receipt, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, ok := r.receipts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return receipt.Clone(), nil
}

func (r *ReceiptRepository) List(ctx context.Context) ([]*domain.Receipt, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Receipt, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.receipts[id].Clone())
	}
	return out, nil
}
