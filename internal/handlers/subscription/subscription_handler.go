// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"errors"
	"net/http"

	domain "sokohub-service/internal/domain/subscription"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/pkg/response"
	"sokohub-service/internal/service/lifecycle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	manager *lifecycle.Manager
	logger  *zap.Logger
}

func NewSubscriptionHandler(manager *lifecycle.Manager, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		manager: manager,
		logger:  logger,
	}
}

// Purchase is called by the billing collaborator after payment capture.
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	var req domain.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sub, err := h.manager.Purchase(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to create subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription created successfully", sub)
}

// RenewalConfirmed mirrors the billing collaborator's onRenewalConfirmed.
func (h *SubscriptionHandler) RenewalConfirmed(c *gin.Context) {
	var req domain.RenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sub, err := h.manager.Renew(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, statusFor(err), "failed to renew subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription renewed successfully", sub)
}

// PaymentFailed is advisory only. The scheduler's grace/expiry logic remains
// the sole expiry authority; this endpoint just records the notice.
func (h *SubscriptionHandler) PaymentFailed(c *gin.Context) {
	var req domain.PaymentFailedNotice
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	h.logger.Warn("payment failure notice received",
		zap.String("vendor_id", req.VendorID),
		zap.String("subscription_id", req.SubscriptionID),
		zap.String("reason", req.Reason),
	)

	response.Success(c, http.StatusAccepted, "payment failure recorded", nil)
}

// Cancel applies the explicit vendor cancellation.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	subscriptionID := c.Param("subscription_id")

	if err := h.manager.Cancel(c.Request.Context(), vendorID, subscriptionID); err != nil {
		response.Error(c, statusFor(err), "failed to cancel subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription cancelled", nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrConflict),
		errors.Is(err, xerrors.ErrVersionConflict),
		errors.Is(err, xerrors.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrUnknownTier),
		errors.Is(err, xerrors.ErrInvalidRenewalTarget),
		errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
