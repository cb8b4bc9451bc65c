// Package repository defines the storage contracts the services depend on.
// Postgres implementations live in repository/postgres; repository/memory
// backs tests and local runs without external infrastructure.
package repository

import (
	"context"
	"time"

	"sokohub-service/internal/domain/product"
	"sokohub-service/internal/domain/subscription"
	"sokohub-service/internal/domain/tier"
)

// SubscriptionRepository persists vendor subscriptions. Records are only ever
// inserted or state-advanced; nothing deletes them.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *subscription.Subscription) error
	FindByID(ctx context.Context, id string) (*subscription.Subscription, error)
	// FindCurrentByVendor returns the vendor's most recent non-superseded
	// subscription, or ErrNotFound.
	FindCurrentByVendor(ctx context.Context, vendorID string) (*subscription.Subscription, error)
	// UpdateStateCAS advances the record's state iff the stored version still
	// matches expectedVersion. Returns ErrVersionConflict on a lost race.
	UpdateStateCAS(ctx context.Context, id string, expectedVersion int64, next subscription.State, at time.Time) error
	// Supersede terminates the prior record, links its replacement, and
	// inserts the successor as one atomic write, guarded by the prior
	// record's version CAS. Either both records change or neither does.
	Supersede(ctx context.Context, priorID string, expectedVersion int64, successor *subscription.Subscription, at time.Time) error
	// ListDueForTransition returns non-terminal subscriptions whose end or
	// end+graceWindow boundary has passed as of the given instant.
	ListDueForTransition(ctx context.Context, asOf time.Time, graceWindow time.Duration) ([]*subscription.Subscription, error)
}

// ProductRepository persists vendor listings.
type ProductRepository interface {
	Create(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id string) (*product.Product, error)
	Update(ctx context.Context, p *product.Product) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	// Select returns products matching the filters. Empty region/category
	// fields act as wildcards.
	Select(ctx context.Context, f product.Filters) ([]*product.Product, error)
}

// TierRepository stores tier definitions for the catalog snapshot.
type TierRepository interface {
	ListAll(ctx context.Context) ([]*tier.Tier, error)
}
