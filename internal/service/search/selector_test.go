package search

import (
	"context"
	"testing"

	"sokohub-service/internal/domain/product"
	"sokohub-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducts(t *testing.T) *memory.ProductRepository {
	t.Helper()
	repo := memory.NewProductRepository()
	ctx := context.Background()

	seeds := []*product.Product{
		{ID: "p-1", VendorID: "v-1", Title: "Phone", Region: "nairobi", Category: "electronics", Active: true},
		{ID: "p-2", VendorID: "v-1", Title: "Laptop", Region: "nairobi", Category: "electronics", Active: false},
		{ID: "p-3", VendorID: "v-2", Title: "Sofa", Region: "nairobi", Category: "furniture", Active: true},
		{ID: "p-4", VendorID: "v-2", Title: "Tablet", Region: "mombasa", Category: "electronics", Active: true},
	}
	for _, p := range seeds {
		require.NoError(t, repo.Create(ctx, p))
	}
	return repo
}

func ids(products []*product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestSelectFilters(t *testing.T) {
	s := NewCandidateSelector(seedProducts(t))
	ctx := context.Background()

	t.Run("region and category", func(t *testing.T) {
		got, err := s.Select(ctx, "nairobi", "electronics", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"p-1"}, ids(got))
	})

	t.Run("empty filters are wildcards", func(t *testing.T) {
		got, err := s.Select(ctx, "", "", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"p-1", "p-3", "p-4"}, ids(got))
	})

	t.Run("region only", func(t *testing.T) {
		got, err := s.Select(ctx, "mombasa", "", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"p-4"}, ids(got))
	})

	t.Run("inactive listings included on request", func(t *testing.T) {
		got, err := s.Select(ctx, "nairobi", "electronics", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"p-1", "p-2"}, ids(got))
	})

	t.Run("no matches is empty, not an error", func(t *testing.T) {
		got, err := s.Select(ctx, "kisumu", "", true)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
