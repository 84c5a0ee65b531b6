package store

import (
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/catalog"
)

var (
	ErrNilProduct       = errors.New("store: product is nil")
	ErrDuplicateProduct = errors.New("store: product already exists")
	ErrProductNotFound  = errors.New("store: product not found")
)

// Store owns the catalog in insertion order. It is not safe for concurrent use.
type Store struct {
	products []catalog.Product
}

// New builds a store from products, rejecting duplicate names.
func New(products ...catalog.Product) (*Store, error) {
	s := &Store{products: make([]catalog.Product, 0, len(products))}
	for _, p := range products {
		if err := s.AddProduct(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) AddProduct(p catalog.Product) error {
	if p == nil {
		return ErrNilProduct
	}
	if _, ok := s.Product(p.Name()); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProduct, p.Name())
	}
	s.products = append(s.products, p)
	return nil
}

// RemoveProduct removes p by identity. A missing product leaves the store unchanged
// and returns ErrProductNotFound, which callers are expected to treat as a warning.
func (s *Store) RemoveProduct(p catalog.Product) error {
	for i, existing := range s.products {
		if existing == p {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	name := "<nil>"
	if p != nil {
		name = p.Name()
	}
	return fmt.Errorf("%w: %q", ErrProductNotFound, name)
}

// Product returns the first product with exactly this name, active or not.
func (s *Store) Product(name string) (catalog.Product, bool) {
	for _, p := range s.products {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// AllProducts returns the active products in insertion order.
func (s *Store) AllProducts() []catalog.Product {
	active := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// TotalQuantity sums the quantity of active products.
func (s *Store) TotalQuantity() int {
	total := 0
	for _, p := range s.products {
		if p.IsActive() {
			total += p.Quantity()
		}
	}
	return total
}

func (s *Store) Len() int { return len(s.products) }
