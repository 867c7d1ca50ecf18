package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shady333/gettingHWaccess/internal/metrics"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// ErrDuplicateProduct is returned when adding a product that is already tracked.
var ErrDuplicateProduct = errors.New("product already tracked")

// ProductSet is the ordered, mutable set of tracked products. Polling
// iterates it in insertion order.
type ProductSet struct {
	mu    sync.RWMutex
	items []domain.Product
}

// NewProductSet returns a set holding products, skipping duplicates.
func NewProductSet(products ...domain.Product) *ProductSet {
	s := &ProductSet{}
	for _, p := range products {
		_ = s.Add(p) //nolint:errcheck // duplicates dropped
	}
	return s
}

// Add appends p. It fails for an empty or already tracked id.
func (s *ProductSet) Add(p domain.Product) error {
	if p.ID == "" {
		return errors.New("product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
	}
	s.items = append(s.items, p)
	metrics.TrackedProducts.Set(float64(len(s.items)))
	return nil
}

// Remove drops the product with id and reports whether it was tracked.
func (s *ProductSet) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	metrics.TrackedProducts.Set(float64(len(s.items)))
	return true
}

// Get returns the product with id.
func (s *ProductSet) Get(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.Product{}, false
}

// List returns a snapshot of the tracked products in order.
func (s *ProductSet) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Len returns the number of tracked products.
func (s *ProductSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *ProductSet) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(p domain.Product) bool { return p.ID == id })
}
