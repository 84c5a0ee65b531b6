package promotion

import "github.com/shopspring/decimal"

// Type identifies a promotion strategy in config files and API payloads.
type Type string

const (
	TypePercentDiscount Type = "percent_discount"
	TypeSecondHalfPrice Type = "second_half_price"
	TypeThirdOneFree    Type = "third_one_free"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Priced is anything with a reference price.
type Priced interface {
	Price() decimal.Decimal
}

// Promotion computes the total price of quantity units of ref.
// Implementations only read ref.Price() and never fail; callers validate quantity first.
type Promotion interface {
	Name() string
	Type() Type
	Apply(ref Priced, quantity int) decimal.Decimal
}

// PercentDiscount takes a fixed percentage off the whole line.
type PercentDiscount struct {
	name    string
	percent decimal.Decimal
}

// NewPercentDiscount does not range-check percent.
func NewPercentDiscount(name string, percent decimal.Decimal) *PercentDiscount {
	return &PercentDiscount{name: name, percent: percent}
}

func (p *PercentDiscount) Name() string             { return p.name }
func (p *PercentDiscount) Type() Type               { return TypePercentDiscount }
func (p *PercentDiscount) Percent() decimal.Decimal { return p.percent }

func (p *PercentDiscount) Apply(ref Priced, quantity int) decimal.Decimal {
	gross := ref.Price().Mul(decimal.NewFromInt(int64(quantity)))
	return gross.Mul(hundred.Sub(p.percent)).Div(hundred)
}

// SecondHalfPrice charges every second unit at half price.
type SecondHalfPrice struct {
	name string
}

func NewSecondHalfPrice(name string) *SecondHalfPrice {
	return &SecondHalfPrice{name: name}
}

func (p *SecondHalfPrice) Name() string { return p.name }
func (p *SecondHalfPrice) Type() Type   { return TypeSecondHalfPrice }

func (p *SecondHalfPrice) Apply(ref Priced, quantity int) decimal.Decimal {
	price := ref.Price()
	pairs := quantity / 2
	halfPriced := decimal.NewFromInt(int64(pairs)).Mul(price.Div(two))
	fullPriced := decimal.NewFromInt(int64(quantity - pairs)).Mul(price)
	return halfPriced.Add(fullPriced)
}

// ThirdOneFree gives away every third unit.
type ThirdOneFree struct {
	name string
}

func NewThirdOneFree(name string) *ThirdOneFree {
	return &ThirdOneFree{name: name}
}

func (p *ThirdOneFree) Name() string { return p.name }
func (p *ThirdOneFree) Type() Type   { return TypeThirdOneFree }

func (p *ThirdOneFree) Apply(ref Priced, quantity int) decimal.Decimal {
	billable := quantity - quantity/3
	return decimal.NewFromInt(int64(billable)).Mul(ref.Price())
}
