package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/promotion"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidName     = errors.New("catalog: name cannot be empty")
	ErrInvalidPrice    = errors.New("catalog: price cannot be negative")
	ErrInvalidQuantity = errors.New("catalog: invalid quantity")
	ErrInvalidMaximum  = errors.New("catalog: maximum must be greater than zero")
	ErrOutOfStock      = errors.New("catalog: not in stock")
	ErrLimitExceeded   = errors.New("catalog: purchase limit exceeded")
)

// Kind tags the fixed set of product variants.
type Kind string

const (
	KindStocked    Kind = "stocked"
	KindNonStocked Kind = "non_stocked"
	KindLimited    Kind = "limited"
)

// Product is implemented only by StockedProduct, NonStockedProduct and LimitedProduct.
type Product interface {
	Name() string
	Price() decimal.Decimal
	Kind() Kind

	Quantity() int
	SetQuantity(quantity int) error
	IsActive() bool
	Activate() bool
	Deactivate() bool

	Promotion() promotion.Promotion
	SetPromotion(p promotion.Promotion)

	// TracksStock reports whether purchases draw down Quantity.
	TracksStock() bool
	// MaxPerOrder reports the per-line purchase cap, if the variant has one.
	MaxPerOrder() (int, bool)

	Show() string
	Buy(quantity int) (decimal.Decimal, error)

	sealed()
}

type base struct {
	name     string
	price    decimal.Decimal
	quantity int
	active   bool
	promo    promotion.Promotion
}

func newBase(name string, price decimal.Decimal, quantity int) (base, error) {
	if name == "" {
		return base{}, ErrInvalidName
	}
	if price.IsNegative() {
		return base{}, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if quantity < 0 {
		return base{}, fmt.Errorf("catalog: %q: %w", name, ErrInvalidQuantity)
	}
	return base{
		name:     name,
		price:    price,
		quantity: quantity,
		active:   quantity > 0,
	}, nil
}

func (b *base) Name() string                       { return b.name }
func (b *base) Price() decimal.Decimal             { return b.price }
func (b *base) Quantity() int                      { return b.quantity }
func (b *base) IsActive() bool                     { return b.active }
func (b *base) Promotion() promotion.Promotion     { return b.promo }
func (b *base) SetPromotion(p promotion.Promotion) { b.promo = p }
func (b *base) sealed()                            {}

func (b *base) SetQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("catalog: set quantity %q: %w", b.name, ErrInvalidQuantity)
	}
	b.quantity = quantity
	if b.quantity == 0 {
		b.active = false
	}
	return nil
}

func (b *base) Activate() bool {
	b.active = true
	return b.active
}

func (b *base) Deactivate() bool {
	b.active = false
	return b.active
}

// total prices quantity units, deferring to the attached promotion if any.
func (b *base) total(ref promotion.Priced, quantity int) decimal.Decimal {
	if b.promo != nil {
		return b.promo.Apply(ref, quantity)
	}
	return b.price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (b *base) show(extra ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, Price: $%s", b.name, b.price.String())
	for _, e := range extra {
		sb.WriteString(", ")
		sb.WriteString(e)
	}
	if b.promo != nil {
		fmt.Fprintf(&sb, ", Promotion: %s", b.promo.Name())
	}
	return sb.String()
}

// buyStock is the purchase rule shared by the stock-tracked variants.
func (b *base) buyStock(ref promotion.Priced, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("catalog: buy %q: %w", b.name, ErrInvalidQuantity)
	}
	if !b.active || quantity > b.quantity {
		return decimal.Zero, fmt.Errorf("catalog: buy %q: %w", b.name, ErrOutOfStock)
	}
	b.quantity -= quantity
	if b.quantity == 0 {
		b.active = false
	}
	return b.total(ref, quantity), nil
}

// StockedProduct is the default kind: purchases decrement quantity.
type StockedProduct struct {
	base
}

func NewStockedProduct(name string, price decimal.Decimal, quantity int) (*StockedProduct, error) {
	b, err := newBase(name, price, quantity)
	if err != nil {
		return nil, err
	}
	return &StockedProduct{base: b}, nil
}

func (p *StockedProduct) Kind() Kind               { return KindStocked }
func (p *StockedProduct) TracksStock() bool        { return true }
func (p *StockedProduct) MaxPerOrder() (int, bool) { return 0, false }

func (p *StockedProduct) Show() string {
	return p.show(fmt.Sprintf("Quantity: %d", p.quantity))
}

func (p *StockedProduct) Buy(quantity int) (decimal.Decimal, error) {
	return p.buyStock(p, quantity)
}

// NonStockedProduct has no stock to run out of, e.g. a software license.
// Quantity is pinned to zero and the product stays active.
type NonStockedProduct struct {
	base
}

func NewNonStockedProduct(name string, price decimal.Decimal) (*NonStockedProduct, error) {
	b, err := newBase(name, price, 0)
	if err != nil {
		return nil, err
	}
	b.active = true
	return &NonStockedProduct{base: b}, nil
}

func (p *NonStockedProduct) Kind() Kind               { return KindNonStocked }
func (p *NonStockedProduct) TracksStock() bool        { return false }
func (p *NonStockedProduct) MaxPerOrder() (int, bool) { return 0, false }

// SetQuantity is a no-op; the quantity of a non-stocked product is meaningless.
func (p *NonStockedProduct) SetQuantity(int) error { return nil }

func (p *NonStockedProduct) Show() string {
	return p.show()
}

func (p *NonStockedProduct) Buy(quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("catalog: buy %q: %w", p.name, ErrInvalidQuantity)
	}
	return p.total(p, quantity), nil
}

// LimitedProduct is stock-tracked and caps the quantity of a single order line.
type LimitedProduct struct {
	base
	maximum int
}

func NewLimitedProduct(name string, price decimal.Decimal, quantity, maximum int) (*LimitedProduct, error) {
	b, err := newBase(name, price, quantity)
	if err != nil {
		return nil, err
	}
	if maximum <= 0 {
		return nil, fmt.Errorf("catalog: %q: %w", name, ErrInvalidMaximum)
	}
	return &LimitedProduct{base: b, maximum: maximum}, nil
}

func (p *LimitedProduct) Kind() Kind               { return KindLimited }
func (p *LimitedProduct) TracksStock() bool        { return true }
func (p *LimitedProduct) MaxPerOrder() (int, bool) { return p.maximum, true }
func (p *LimitedProduct) Maximum() int             { return p.maximum }

func (p *LimitedProduct) Show() string {
	return p.show(
		fmt.Sprintf("Quantity: %d", p.quantity),
		fmt.Sprintf("Purchasable: %d", p.maximum),
	)
}

func (p *LimitedProduct) Buy(quantity int) (decimal.Decimal, error) {
	if quantity > p.maximum {
		return decimal.Zero, fmt.Errorf("catalog: buy %q: %w (max %d per order)", p.name, ErrLimitExceeded, p.maximum)
	}
	return p.buyStock(p, quantity)
}
