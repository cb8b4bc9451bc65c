// internal/service/product/product_service.go
package product

import (
	"context"
	"fmt"
	"time"

	domain "sokohub-service/internal/domain/product"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/repository"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Service manages vendor listings. Listings have immutable identity and
// mutable display fields; leaving search is always deactivation, never
// deletion.
type Service struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

func NewService(productRepo repository.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateProduct registers a new active listing for a vendor.
func (s *Service) CreateProduct(ctx context.Context, req *domain.CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		ID:          ulid.Make().String(),
		VendorID:    req.VendorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Region:      req.Region,
		Active:      true,
	}

	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("vendor_id", p.VendorID),
		zap.String("category", p.Category),
		zap.String("region", p.Region),
	)

	return p, nil
}

// UpdateProduct updates the mutable display fields of a vendor's listing.
func (s *Service) UpdateProduct(ctx context.Context, vendorID, productID string, req *domain.UpdateProductRequest) (*domain.Product, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.VendorID != vendorID {
		return nil, xerrors.ErrForbidden
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Region != nil {
		p.Region = *req.Region
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update product", zap.Error(err))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("product updated", zap.String("product_id", productID))

	return s.productRepo.FindByID(ctx, productID)
}

// DeactivateProduct removes a listing from search without deleting it.
func (s *Service) DeactivateProduct(ctx context.Context, vendorID, productID string) error {
	return s.setActive(ctx, vendorID, productID, false)
}

// ActivateProduct returns a deactivated listing to search.
func (s *Service) ActivateProduct(ctx context.Context, vendorID, productID string) error {
	return s.setActive(ctx, vendorID, productID, true)
}

func (s *Service) setActive(ctx context.Context, vendorID, productID string, active bool) error {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if p.VendorID != vendorID {
		return xerrors.ErrForbidden
	}

	if err := s.productRepo.SetActive(ctx, productID, active, time.Now()); err != nil {
		return fmt.Errorf("failed to set product active flag: %w", err)
	}

	s.logger.Info("product active flag changed",
		zap.String("product_id", productID),
		zap.Bool("active", active),
	)

	return nil
}

// ListByVendor returns all of a vendor's listings, inactive ones included.
func (s *Service) ListByVendor(ctx context.Context, vendorID string) ([]*domain.Product, error) {
	products, err := s.productRepo.Select(ctx, domain.Filters{VendorID: vendorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
