// internal/domain/subscription/events.go
package subscription

import (
	"time"
)

type EventType string

const (
	// EventVisibilityGranted fires on any transition into Active, fresh or
	// renewed.
	EventVisibilityGranted EventType = "visibility_granted"
	// EventVisibilityLost fires on any transition into Expired or Cancelled.
	EventVisibilityLost EventType = "visibility_lost"
)

// LifecycleEvent is the sole interface to the notification collaborator.
// Delivery is at-least-once; consumers deduplicate by
// (subscription_id, type, occurred_at).
type LifecycleEvent struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	VendorID       string    `json:"vendor_id"`
	SubscriptionID string    `json:"subscription_id"`
	TierID         string    `json:"tier_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventFor maps a state entry to its lifecycle event type, or "" when the
// entered state is not externally visible.
func EventFor(entered State) EventType {
	switch entered {
	case StateActive:
		return EventVisibilityGranted
	case StateExpired, StateCancelled:
		return EventVisibilityLost
	}
	return ""
}
