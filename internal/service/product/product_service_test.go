package product

import (
	"context"
	"testing"

	domain "sokohub-service/internal/domain/product"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService() (*Service, *memory.ProductRepository) {
	repo := memory.NewProductRepository()
	return NewService(repo, zap.NewNop()), repo
}

func createListing(t *testing.T, s *Service, vendorID string) *domain.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), &domain.CreateProductRequest{
		VendorID: vendorID,
		Title:    "Solar Lamp",
		Category: "electronics",
		Region:   "nairobi",
	})
	require.NoError(t, err)
	return p
}

func TestCreateProduct(t *testing.T) {
	s, _ := newService()

	p := createListing(t, s, "vendor-1")
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active)
	assert.Equal(t, "vendor-1", p.VendorID)
}

func TestUpdateProduct(t *testing.T) {
	s, _ := newService()
	p := createListing(t, s, "vendor-1")

	title := "Solar Lamp XL"
	region := "mombasa"
	updated, err := s.UpdateProduct(context.Background(), "vendor-1", p.ID, &domain.UpdateProductRequest{
		Title:  &title,
		Region: &region,
	})
	require.NoError(t, err)

	assert.Equal(t, "Solar Lamp XL", updated.Title)
	assert.Equal(t, "mombasa", updated.Region)
	// Untouched fields survive a partial update.
	assert.Equal(t, "electronics", updated.Category)
}

func TestUpdateProductWrongVendor(t *testing.T) {
	s, _ := newService()
	p := createListing(t, s, "vendor-1")

	title := "Hijacked"
	_, err := s.UpdateProduct(context.Background(), "vendor-2", p.ID, &domain.UpdateProductRequest{Title: &title})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestActivationRoundTrip(t *testing.T) {
	s, repo := newService()
	p := createListing(t, s, "vendor-1")
	ctx := context.Background()

	require.NoError(t, s.DeactivateProduct(ctx, "vendor-1", p.ID))

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	require.NoError(t, s.ActivateProduct(ctx, "vendor-1", p.ID))

	stored, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestDeactivateWrongVendor(t *testing.T) {
	s, _ := newService()
	p := createListing(t, s, "vendor-1")

	err := s.DeactivateProduct(context.Background(), "vendor-2", p.ID)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestListByVendorIncludesInactive(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	first := createListing(t, s, "vendor-1")
	createListing(t, s, "vendor-1")
	createListing(t, s, "vendor-2")

	require.NoError(t, s.DeactivateProduct(ctx, "vendor-1", first.ID))

	listings, err := s.ListByVendor(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}
