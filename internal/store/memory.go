package store

import (
	"context"
	"strings"
	"sync"

	cerrors "github.com/catalogsvc/catalog/internal/errors"
	"github.com/google/uuid"
)

// MemoryStore implements ProductStore using an in-memory slice, preserving
// insertion order. Each operation is guarded by a RWMutex; the store itself
// makes no cross-operation guarantees (see the service layer for the
// duplicate-name check).
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
}

// NewMemoryStore creates a new instance of ProductStore holding the given
// products in order.
func NewMemoryStore(products ...Product) *MemoryStore {
	s := &MemoryStore{
		products: make([]Product, 0, len(products)),
	}
	s.products = append(s.products, products...)
	return s
}

// SeedProducts returns the three catalog records present at process start.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          uuid.NewString(),
			Name:        "Laptop",
			Description: "High-performance laptop with 16GB RAM",
			Price:       1299.99,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Smartphone",
			Description: "Latest model with 128GB storage",
			Price:       799.49,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Coffee Maker",
			Description: "Programmable coffee maker with timer",
			Price:       49.99,
			Category:    "kitchen",
			InStock:     false,
		},
	}
}

// List returns a snapshot copy of all products in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// FindByID retrieves a product by its ID.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, cerrors.ErrProductNotFound
}

// FindByName retrieves a product by case-insensitive exact name match,
// skipping excludeID when non-empty.
func (s *MemoryStore) FindByName(_ context.Context, name, excludeID string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if excludeID != "" && p.ID == excludeID {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, cerrors.ErrProductNotFound
}

// Insert appends a new product.
func (s *MemoryStore) Insert(_ context.Context, product Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, product)
	return nil
}

// Replace swaps the product stored under id wholesale, keeping its position.
func (s *MemoryStore) Replace(_ context.Context, id string, product Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products[i] = product
			return nil
		}
	}
	return cerrors.ErrProductNotFound
}

// Remove deletes a product by its ID and returns the removed record.
func (s *MemoryStore) Remove(_ context.Context, id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			removed := p
			s.products = append(s.products[:i], s.products[i+1:]...)
			return &removed, nil
		}
	}
	return nil, cerrors.ErrProductNotFound
}
