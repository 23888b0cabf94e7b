package service

import (
	"context"
	"testing"

	cerrors "github.com/catalogsvc/catalog/internal/errors"
	"github.com/catalogsvc/catalog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool      { return &b }

// newFixtureService builds a service over a fresh store so every test case
// is isolated.
func newFixtureService() (*Service, *store.MemoryStore) {
	s := store.NewMemoryStore(
		store.Product{ID: "p-1", Name: "Laptop", Description: "High-performance laptop with 16GB RAM", Price: 1299.99, Category: "electronics", InStock: true},
		store.Product{ID: "p-2", Name: "Smartphone", Description: "Latest model with 128GB storage", Price: 799.49, Category: "electronics", InStock: true},
		store.Product{ID: "p-3", Name: "Coffee Maker", Description: "Programmable coffee maker with timer", Price: 49.99, Category: "kitchen", InStock: false},
	)
	return NewService(s), s
}

func Test_CatalogService_List_Filters(t *testing.T) {
	testCases := []struct {
		name        string
		query       ListQuery
		expectIDs   []string
		expectTotal int
	}{
		{
			name:        "Success - no filters returns everything",
			query:       ListQuery{Page: 1, Limit: 10},
			expectIDs:   []string{"p-1", "p-2", "p-3"},
			expectTotal: 3,
		},
		{
			name:        "Success - search matches name case-insensitively",
			query:       ListQuery{Search: "laptop", Page: 1, Limit: 10},
			expectIDs:   []string{"p-1"},
			expectTotal: 1,
		},
		{
			name:        "Success - search matches description",
			query:       ListQuery{Search: "128gb", Page: 1, Limit: 10},
			expectIDs:   []string{"p-2"},
			expectTotal: 1,
		},
		{
			name:        "Success - category matches case-insensitively",
			query:       ListQuery{Category: "KITCHEN", Page: 1, Limit: 10},
			expectIDs:   []string{"p-3"},
			expectTotal: 1,
		},
		{
			name:        "Success - inStock true",
			query:       ListQuery{InStock: boolPtr(true), Page: 1, Limit: 10},
			expectIDs:   []string{"p-1", "p-2"},
			expectTotal: 2,
		},
		{
			name:        "Success - category and stock combine with AND",
			query:       ListQuery{Category: "kitchen", InStock: boolPtr(false), Page: 1, Limit: 10},
			expectIDs:   []string{"p-3"},
			expectTotal: 1,
		},
		{
			name:        "Success - filters can empty the set",
			query:       ListQuery{Search: "laptop", Category: "kitchen", Page: 1, Limit: 10},
			expectIDs:   []string{},
			expectTotal: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _ := newFixtureService()
			// when
			page, err := svc.List(context.Background(), tc.query)
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectTotal, page.Total)
			ids := make([]string, 0, len(page.Products))
			for _, p := range page.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expectIDs, ids)
		})
	}
}

func Test_CatalogService_List_Pagination(t *testing.T) {
	testCases := []struct {
		name           string
		page, limit    int
		expectIDs      []string
		expectNext     *PageLink
		expectPrevious *PageLink
	}{
		{
			name: "Success - first page of one",
			page: 1, limit: 1,
			expectIDs:  []string{"p-1"},
			expectNext: &PageLink{Page: 2, Limit: 1},
		},
		{
			name: "Success - middle page carries both links",
			page: 2, limit: 1,
			expectIDs:      []string{"p-2"},
			expectNext:     &PageLink{Page: 3, Limit: 1},
			expectPrevious: &PageLink{Page: 1, Limit: 1},
		},
		{
			name: "Success - last page omits next",
			page: 3, limit: 1,
			expectIDs:      []string{"p-3"},
			expectPrevious: &PageLink{Page: 2, Limit: 1},
		},
		{
			name: "Success - page past the end is empty but keeps previous",
			page: 5, limit: 2,
			expectIDs:      []string{},
			expectPrevious: &PageLink{Page: 4, Limit: 2},
		},
		{
			name: "Success - limit larger than set",
			page: 1, limit: 50,
			expectIDs: []string{"p-1", "p-2", "p-3"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _ := newFixtureService()
			// when
			page, err := svc.List(context.Background(), ListQuery{Page: tc.page, Limit: tc.limit})
			// then
			require.NoError(t, err)
			assert.Equal(t, 3, page.Total, "total counts the filtered set before pagination")
			assert.Equal(t, tc.page, page.Page)
			assert.Equal(t, tc.limit, page.Limit)
			ids := make([]string, 0, len(page.Products))
			for _, p := range page.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expectIDs, ids)
			assert.Equal(t, tc.expectNext, page.Next)
			assert.Equal(t, tc.expectPrevious, page.Previous)
		})
	}
}

func Test_CatalogService_FindByID(t *testing.T) {
	svc, _ := newFixtureService()

	// when found
	found, err := svc.FindByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", found.Name)

	// when absent
	_, err = svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, cerrors.ErrProductNotFound)
}

func Test_CatalogService_Create(t *testing.T) {
	testCases := []struct {
		name        string
		payload     ProductPayload
		expectError error
		check       func(t *testing.T, created *ProductDto)
	}{
		{
			name: "Success - defaults applied",
			payload: ProductPayload{
				Name:     strPtr("Blender"),
				Price:    numPtr(89.90),
				Category: strPtr("kitchen"),
			},
			check: func(t *testing.T, created *ProductDto) {
				assert.NotEmpty(t, created.ID, "a fresh id must be generated")
				assert.Equal(t, "", created.Description, "description defaults to empty")
				assert.True(t, created.InStock, "inStock defaults to true on create")
			},
		},
		{
			name: "Success - explicit inStock false honored",
			payload: ProductPayload{
				Name:     strPtr("Blender"),
				Price:    numPtr(89.90),
				Category: strPtr("kitchen"),
				InStock:  boolPtr(false),
			},
			check: func(t *testing.T, created *ProductDto) {
				assert.False(t, created.InStock)
			},
		},
		{
			name: "Error - duplicate name",
			payload: ProductPayload{
				Name:     strPtr("Laptop"),
				Price:    numPtr(10),
				Category: strPtr("electronics"),
			},
			expectError: cerrors.ErrDuplicateProduct,
		},
		{
			name: "Error - duplicate name differing only by case",
			payload: ProductPayload{
				Name:     strPtr("lApToP"),
				Price:    numPtr(10),
				Category: strPtr("electronics"),
			},
			expectError: cerrors.ErrDuplicateProduct,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, st := newFixtureService()
			// when
			created, err := svc.Create(context.Background(), tc.payload)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				list, _ := st.List(context.Background())
				assert.Len(t, list, 3, "store must be unchanged on failure")
				return
			}
			require.NoError(t, err)
			tc.check(t, created)

			stored, err := svc.FindByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, stored, "create then get must round-trip")
		})
	}
}

func Test_CatalogService_Update(t *testing.T) {
	testCases := []struct {
		name        string
		id          string
		payload     ProductPayload
		expectError error
		check       func(t *testing.T, updated *ProductDto)
	}{
		{
			name: "Success - wholesale replace with defaults",
			id:   "p-3",
			payload: ProductPayload{
				Name:     strPtr("Espresso Machine"),
				Price:    numPtr(199.99),
				Category: strPtr("kitchen"),
			},
			check: func(t *testing.T, updated *ProductDto) {
				assert.Equal(t, "p-3", updated.ID, "id is immutable")
				assert.Equal(t, "Espresso Machine", updated.Name)
				assert.Equal(t, "", updated.Description, "description defaults to empty on update")
				assert.False(t, updated.InStock, "absent inStock preserves the prior stored value")
			},
		},
		{
			name: "Success - record may keep its own name",
			id:   "p-1",
			payload: ProductPayload{
				Name:     strPtr("LAPTOP"),
				Price:    numPtr(999.99),
				Category: strPtr("electronics"),
			},
			check: func(t *testing.T, updated *ProductDto) {
				assert.Equal(t, "LAPTOP", updated.Name)
				assert.True(t, updated.InStock, "prior inStock was true")
			},
		},
		{
			name: "Error - unknown id",
			id:   "missing",
			payload: ProductPayload{
				Name:     strPtr("Anything"),
				Price:    numPtr(1),
				Category: strPtr("misc"),
			},
			expectError: cerrors.ErrProductNotFound,
		},
		{
			name: "Error - name held by another product",
			id:   "p-2",
			payload: ProductPayload{
				Name:     strPtr("coffee maker"),
				Price:    numPtr(1),
				Category: strPtr("kitchen"),
			},
			expectError: cerrors.ErrDuplicateProduct,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _ := newFixtureService()
			// when
			updated, err := svc.Update(context.Background(), tc.id, tc.payload)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			tc.check(t, updated)

			stored, err := svc.FindByID(context.Background(), tc.id)
			require.NoError(t, err)
			assert.Equal(t, updated, stored)
		})
	}
}

func Test_CatalogService_Delete(t *testing.T) {
	// given
	svc, st := newFixtureService()
	// when
	removed, err := svc.Delete(context.Background(), "p-2")
	// then
	require.NoError(t, err)
	assert.Equal(t, "Smartphone", removed.Name)

	_, err = svc.FindByID(context.Background(), "p-2")
	assert.ErrorIs(t, err, cerrors.ErrProductNotFound, "deleted id must be gone")

	list, _ := st.List(context.Background())
	assert.Len(t, list, 2)

	// deleting an unknown id fails
	_, err = svc.Delete(context.Background(), "p-2")
	assert.ErrorIs(t, err, cerrors.ErrProductNotFound)
}
