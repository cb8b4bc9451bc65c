// internal/domain/subscription/dto.go
package subscription

import (
	"time"
)

// PurchaseRequest is posted by the billing collaborator after payment capture.
type PurchaseRequest struct {
	VendorID  string    `json:"vendor_id" binding:"required"`
	TierID    string    `json:"tier_id" binding:"required"`
	StartAt   time.Time `json:"start_at" binding:"required"`
	EndAt     time.Time `json:"end_at" binding:"required"`
	AutoRenew bool      `json:"auto_renew"`
	Reference string    `json:"reference"`
}

// RenewalRequest mirrors the billing collaborator's onRenewalConfirmed call.
// It must reference the vendor's current unsuperseded subscription.
type RenewalRequest struct {
	VendorID       string    `json:"vendor_id" binding:"required"`
	SubscriptionID string    `json:"subscription_id" binding:"required"`
	NewEndAt       time.Time `json:"new_end_at" binding:"required"`
	Reference      string    `json:"reference"`
}

// PaymentFailedNotice is advisory only; it never drives a transition. The
// scheduler's grace/expiry logic stays the sole expiry authority.
type PaymentFailedNotice struct {
	VendorID       string `json:"vendor_id" binding:"required"`
	SubscriptionID string `json:"subscription_id" binding:"required"`
	Reason         string `json:"reason"`
}

// CancelRequest is the explicit vendor action reaching Cancelled.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// EffectiveTier is the derived, never-persisted resolution of a vendor's
// standing at an instant. Recomputed on every read so no cached boost can
// outlive the subscription's validity window.
type EffectiveTier struct {
	VendorID       string    `json:"vendor_id"`
	TierID         string    `json:"tier_id"`
	Ordinal        int       `json:"ordinal"`
	BoostWeight    float64   `json:"boost_weight"`
	Phase          Phase     `json:"phase"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	AsOf           time.Time `json:"as_of"`
}
