package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/promotion"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

var (
	ErrUnknownPromotion   = errors.New("config: unknown promotion")
	ErrDuplicatePromotion = errors.New("config: duplicate promotion id")
	ErrUnknownKind        = errors.New("config: unknown product kind")
	ErrInvalidPercent     = errors.New("config: percent must be between 0 and 100")
)

// Money is a decimal amount written in YAML as a number or a quoted string.
type Money struct{ decimal.Decimal }

func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: amount %q: %w", node.Line, node.Value, err)
	}
	m.Decimal = d
	return nil
}

type PromotionSpec struct {
	ID      string         `yaml:"id"`
	Type    promotion.Type `yaml:"type"`
	Name    string         `yaml:"name"`
	Percent Money          `yaml:"percent"`
}

type ProductSpec struct {
	Name      string       `yaml:"name"`
	Kind      catalog.Kind `yaml:"kind"`
	Price     Money        `yaml:"price"`
	Quantity  int          `yaml:"quantity"`
	Maximum   int          `yaml:"maximum"`
	Promotion string       `yaml:"promotion"`
}

// Catalog is the on-disk description of a store. Promotions are declared once
// and referenced by id, so several products can share one promotion.
type Catalog struct {
	Promotions []PromotionSpec `yaml:"promotions"`
	Products   []ProductSpec   `yaml:"products"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(bytes.NewReader(defaultCatalog))
}

// ParseCatalog decodes a catalog, rejecting unknown keys.
func ParseCatalog(r io.Reader) (Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}
	return c, nil
}

// LoadCatalog reads the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, err
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Build materializes the catalog into a store, products in file order.
func (c Catalog) Build() (*store.Store, error) {
	promos := make(map[string]promotion.Promotion, len(c.Promotions))
	for _, spec := range c.Promotions {
		if _, dup := promos[spec.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePromotion, spec.ID)
		}
		p, err := spec.build()
		if err != nil {
			return nil, err
		}
		promos[spec.ID] = p
	}

	products := make([]catalog.Product, 0, len(c.Products))
	for _, spec := range c.Products {
		p, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", spec.Name, err)
		}
		if spec.Promotion != "" {
			promo, ok := promos[spec.Promotion]
			if !ok {
				return nil, fmt.Errorf("product %q: %w: %q", spec.Name, ErrUnknownPromotion, spec.Promotion)
			}
			p.SetPromotion(promo)
		}
		products = append(products, p)
	}
	return store.New(products...)
}

var maxPercent = decimal.NewFromInt(100)

func (s PromotionSpec) build() (promotion.Promotion, error) {
	switch s.Type {
	case promotion.TypePercentDiscount:
		if s.Percent.IsNegative() || s.Percent.GreaterThan(maxPercent) {
			return nil, fmt.Errorf("%w: %q has %s", ErrInvalidPercent, s.ID, s.Percent)
		}
		return promotion.NewPercentDiscount(s.Name, s.Percent.Decimal), nil
	case promotion.TypeSecondHalfPrice:
		return promotion.NewSecondHalfPrice(s.Name), nil
	case promotion.TypeThirdOneFree:
		return promotion.NewThirdOneFree(s.Name), nil
	default:
		return nil, fmt.Errorf("%w: %q has type %q", ErrUnknownPromotion, s.ID, s.Type)
	}
}

func (s ProductSpec) build() (catalog.Product, error) {
	switch s.Kind {
	case catalog.KindStocked, "":
		return catalog.NewStockedProduct(s.Name, s.Price.Decimal, s.Quantity)
	case catalog.KindNonStocked:
		return catalog.NewNonStockedProduct(s.Name, s.Price.Decimal)
	case catalog.KindLimited:
		return catalog.NewLimitedProduct(s.Name, s.Price.Decimal, s.Quantity, s.Maximum)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}
