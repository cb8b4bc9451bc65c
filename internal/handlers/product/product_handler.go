// internal/handlers/product/product_handler.go
package product

import (
	"errors"
	"net/http"

	domain "sokohub-service/internal/domain/product"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/pkg/response"
	service "sokohub-service/internal/service/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.Service
}

func NewProductHandler(productService *service.Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProduct registers a new listing.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to create product", err)
		return
	}

	response.Success(c, http.StatusCreated, "product created successfully", p)
}

// UpdateProduct updates a listing's display fields.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	productID := c.Param("product_id")

	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), vendorID, productID, &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to update product", err)
		return
	}

	response.Success(c, http.StatusOK, "product updated successfully", p)
}

// DeactivateProduct removes a listing from search.
func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	productID := c.Param("product_id")

	if err := h.productService.DeactivateProduct(c.Request.Context(), vendorID, productID); err != nil {
		response.Error(c, statusFor(err), "failed to deactivate product", err)
		return
	}

	response.Success(c, http.StatusOK, "product deactivated", nil)
}

// ActivateProduct restores a listing to search.
func (h *ProductHandler) ActivateProduct(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	productID := c.Param("product_id")

	if err := h.productService.ActivateProduct(c.Request.Context(), vendorID, productID); err != nil {
		response.Error(c, statusFor(err), "failed to activate product", err)
		return
	}

	response.Success(c, http.StatusOK, "product activated", nil)
}

// ListVendorProducts returns all listings for a vendor.
func (h *ProductHandler) ListVendorProducts(c *gin.Context) {
	vendorID := c.Param("vendor_id")

	products, err := h.productService.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, statusFor(err), "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", products)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrDuplicateEntry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
