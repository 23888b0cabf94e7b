// Package service provides the implementation of catalog business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cerrors "github.com/catalogsvc/catalog/internal/errors"
	"github.com/catalogsvc/catalog/internal/store"
	"github.com/google/uuid"
)

// CatalogService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type CatalogService interface {
	// List applies the query filters and pagination and returns one page.
	List(ctx context.Context, query ListQuery) (*ProductPage, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// Create adds a new product with a freshly generated ID.
	// Returns ErrDuplicateProduct when another product already holds the
	// name (case-insensitive).
	Create(ctx context.Context, payload ProductPayload) (*ProductDto, error)

	// Update replaces the product stored under id wholesale; the ID is
	// carried over unchanged. Returns ErrProductNotFound if the ID is
	// absent and ErrDuplicateProduct when a different product holds the name.
	Update(ctx context.Context, id string, payload ProductPayload) (*ProductDto, error)

	// Delete removes a product by its ID and returns the removed record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(ctx context.Context, id string) (*ProductDto, error)
}

// Service implements CatalogService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of CatalogService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductPayload represents the request body for create and update. Fields
// are pointers so that absent fields can be told apart from zero values:
// create defaults InStock to true, update defaults it to the prior stored
// value. Validation order is the field declaration order.
type ProductPayload struct {
	Name        *string  `json:"name"        validate:"required,notblank"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Category    *string  `json:"category"    validate:"required,notblank"`
	Description *string  `json:"description"`
	InStock     *bool    `json:"inStock"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"inStock"`
}

// ListQuery carries the list/search/paginate parameters. Page and Limit hold
// whatever the transport parsed (or its defaults); InStock is nil when the
// filter was not requested.
type ListQuery struct {
	Search   string
	Category string
	InStock  *bool
	Page     int
	Limit    int
}

// PageLink points at an adjacent page with the same limit.
type PageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ProductPage is the list response envelope. Total counts the filtered set
// before pagination.
type ProductPage struct {
	Products []ProductDto `json:"products"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	Limit    int          `json:"limit"`
	Next     *PageLink    `json:"next,omitempty"`
	Previous *PageLink    `json:"previous,omitempty"`
}

// List filters the catalog by search, category and stock (AND semantics, in
// that order) and slices the result to [ (page-1)*limit, page*limit ).
func (s *Service) List(ctx context.Context, query ListQuery) (*ProductPage, error) {
	products, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	filtered := products
	if query.Search != "" {
		needle := strings.ToLower(query.Search)
		filtered = filter(filtered, func(p store.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.Description), needle)
		})
	}
	if query.Category != "" {
		filtered = filter(filtered, func(p store.Product) bool {
			return strings.EqualFold(p.Category, query.Category)
		})
	}
	if query.InStock != nil {
		filtered = filter(filtered, func(p store.Product) bool {
			return p.InStock == *query.InStock
		})
	}

	total := len(filtered)
	startIndex := (query.Page - 1) * query.Limit
	endIndex := query.Page * query.Limit

	// Clamp only for slicing; the pagination links are computed from the
	// raw indices.
	lo := min(max(startIndex, 0), total)
	hi := min(max(endIndex, lo), total)

	page := &ProductPage{
		Products: make([]ProductDto, 0, hi-lo),
		Total:    total,
		Page:     query.Page,
		Limit:    query.Limit,
	}
	for _, p := range filtered[lo:hi] {
		page.Products = append(page.Products, *toDto(&p))
	}
	if endIndex < total {
		page.Next = &PageLink{Page: query.Page + 1, Limit: query.Limit}
	}
	if startIndex > 0 {
		page.Previous = &PageLink{Page: query.Page - 1, Limit: query.Limit}
	}
	return page, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return toDto(product), nil
}

// Create adds a new product and returns it as a ProductDto. Description
// defaults to empty and InStock to true when absent from the payload.
func (s *Service) Create(ctx context.Context, payload ProductPayload) (*ProductDto, error) {
	if err := s.checkNameFree(ctx, *payload.Name, ""); err != nil {
		return nil, err
	}

	product := store.Product{
		ID:          uuid.NewString(),
		Name:        *payload.Name,
		Description: stringOrEmpty(payload.Description),
		Price:       *payload.Price,
		Category:    *payload.Category,
		InStock:     boolOr(payload.InStock, true),
	}
	if err := s.repository.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(&product), nil
}

// Update replaces an existing product wholesale. The ID is immutable,
// Description defaults to empty when absent, and InStock falls back to the
// prior stored value — a deliberately different default than create.
func (s *Service) Update(ctx context.Context, id string, payload ProductPayload) (*ProductDto, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	if err := s.checkNameFree(ctx, *payload.Name, id); err != nil {
		return nil, err
	}

	product := store.Product{
		ID:          current.ID,
		Name:        *payload.Name,
		Description: stringOrEmpty(payload.Description),
		Price:       *payload.Price,
		Category:    *payload.Category,
		InStock:     boolOr(payload.InStock, current.InStock),
	}
	if err := s.repository.Replace(ctx, id, product); err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	return toDto(&product), nil
}

// Delete removes a product by its ID and returns the removed record.
func (s *Service) Delete(ctx context.Context, id string) (*ProductDto, error) {
	removed, err := s.repository.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	return toDto(removed), nil
}

// checkNameFree reports ErrDuplicateProduct when a product other than
// excludeID already holds the name, compared case-insensitively.
func (s *Service) checkNameFree(ctx context.Context, name, excludeID string) error {
	_, err := s.repository.FindByName(ctx, name, excludeID)
	if err == nil {
		return cerrors.ErrDuplicateProduct
	}
	if !errors.Is(err, cerrors.ErrProductNotFound) {
		return fmt.Errorf("failed to check product name %q: %w", name, err)
	}
	return nil
}

func filter(products []store.Product, keep func(store.Product) bool) []store.Product {
	out := make([]store.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		InStock:     product.InStock,
	}
}
