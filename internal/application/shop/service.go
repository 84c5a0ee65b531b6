package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/promotion"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/receipt"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability"
	"github.com/Zhima-Mochi/minishop-catalog/internal/observability/logctx"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = store.ErrProductNotFound
	ErrDuplicateProduct = store.ErrDuplicateProduct
	ErrReceiptNotFound  = receipt.ErrNotFound
	ErrInvalidSelection = errors.New("shop: no product at that position")
)

// ProductView is a point-in-time copy of a product, safe to hand to transports.
type ProductView struct {
	Name          string
	Kind          catalog.Kind
	Price         decimal.Decimal
	Quantity      int
	Active        bool
	Maximum       int
	Promotion     string
	PromotionType promotion.Type
	Display       string
}

func viewOf(p catalog.Product) ProductView {
	v := ProductView{
		Name:     p.Name(),
		Kind:     p.Kind(),
		Price:    p.Price(),
		Quantity: p.Quantity(),
		Active:   p.IsActive(),
		Display:  p.Show(),
	}
	if limit, ok := p.MaxPerOrder(); ok {
		v.Maximum = limit
	}
	if promo := p.Promotion(); promo != nil {
		v.Promotion = promo.Name()
		v.PromotionType = promo.Type()
	}
	return v
}

// Service is the single owner of the store. Every call holds one lock, so the
// store, which has no locking of its own, only ever sees one caller at a time.
type Service struct {
	mu         sync.Mutex
	store      *store.Store
	receipts   receipt.Repository
	placeOrder application.UseCase[PlaceOrderInput, *PlaceOrderResult]
	log        observability.Logger
}

func NewService(st *store.Store, receipts receipt.Repository, idGen IDGenerator, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		store:      st,
		receipts:   receipts,
		placeOrder: NewPlaceOrderUseCase(st, receipts, idGen, tel),
		log:        tel.Logger().With(observability.F("service", shopService)),
	}
}

// ListProducts returns the active products in catalog order.
func (s *Service) ListProducts(_ context.Context) []ProductView {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.store.AllProducts()
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, viewOf(p))
	}
	return out
}

// Product looks a product up by exact name, including inactive ones.
func (s *Service) Product(_ context.Context, name string) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.store.Product(name)
	if !ok {
		return ProductView{}, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	return viewOf(p), nil
}

func (s *Service) TotalQuantity(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TotalQuantity()
}

// ResolveSelection maps a 1-based position in ListProducts to a product name.
func (s *Service) ResolveSelection(_ context.Context, position int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.store.AllProducts()
	if position < 1 || position > len(products) {
		return "", fmt.Errorf("%w: %d", ErrInvalidSelection, position)
	}
	return products[position-1].Name(), nil
}

func (s *Service) AddProduct(ctx context.Context, p catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddProduct(p); err != nil {
		logctx.FromOr(ctx, s.log).Warn("product_add_rejected",
			observability.F("error", err),
		)
		return err
	}
	logctx.FromOr(ctx, s.log).Info("product_added",
		observability.F("product", p.Name()),
		observability.F("kind", string(p.Kind())),
	)
	return nil
}

// RemoveProduct drops the named product. An unknown name is logged at warn level
// and otherwise ignored.
func (s *Service) RemoveProduct(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logctx.FromOr(ctx, s.log).With(observability.F("product", name))
	p, ok := s.store.Product(name)
	if !ok {
		logger.Warn("product_not_found")
		return nil
	}
	if err := s.store.RemoveProduct(p); err != nil {
		logger.Warn("product_not_found", observability.F("error", err))
		return nil
	}
	logger.Info("product_removed")
	return nil
}

// SetQuantity restocks a product; zero deactivates it.
func (s *Service) SetQuantity(ctx context.Context, name string, quantity int) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.store.Product(name)
	if !ok {
		return ProductView{}, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	if err := p.SetQuantity(quantity); err != nil {
		return ProductView{}, err
	}
	logctx.FromOr(ctx, s.log).Info("product_quantity_set",
		observability.F("product", name),
		observability.F("quantity", p.Quantity()),
		observability.F("active", p.IsActive()),
	)
	return viewOf(p), nil
}

// SetActive activates or deactivates a product.
func (s *Service) SetActive(ctx context.Context, name string, active bool) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.store.Product(name)
	if !ok {
		return ProductView{}, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	if active {
		p.Activate()
	} else {
		p.Deactivate()
	}
	logctx.FromOr(ctx, s.log).Info("product_activation_set",
		observability.F("product", name),
		observability.F("active", p.IsActive()),
	)
	return viewOf(p), nil
}

// PlaceOrder prices a shopping list. Lines that fail validation are skipped and
// reported in the result; they never fail the whole order.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeOrder.Execute(ctx, input)
}

func (s *Service) Receipt(ctx context.Context, id string) (*receipt.Receipt, error) {
	r, err := s.receipts.Get(ctx, id)
	if err != nil {
		return nil, wrapRepositoryError(err)
	}
	return r, nil
}

func (s *Service) Receipts(ctx context.Context) ([]*receipt.Receipt, error) {
	list, err := s.receipts.List(ctx)
	if err != nil {
		return nil, wrapRepositoryError(err)
	}
	return list, nil
}
