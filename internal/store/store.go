// Package store provides an interface for product storage operations.
package store

import "context"

// Product is a catalog record. The ID is assigned once and never changes;
// Name is unique across the store when compared case-insensitively.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     bool
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations.
type ProductStore interface {
	// List returns a snapshot copy of all products in insertion order.
	List(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByName retrieves a product whose name matches case-insensitively,
	// optionally skipping one ID (used by update so a record may keep its
	// own name). Returns ErrProductNotFound when no such product exists.
	FindByName(ctx context.Context, name, excludeID string) (*Product, error)

	// Insert appends a new product. The caller is responsible for having
	// assigned a unique ID and checked name uniqueness.
	Insert(ctx context.Context, product Product) error

	// Replace swaps the product stored under id wholesale.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Replace(ctx context.Context, id string, product Product) error

	// Remove deletes a product by its ID and returns the removed record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Remove(ctx context.Context, id string) (*Product, error)
}
