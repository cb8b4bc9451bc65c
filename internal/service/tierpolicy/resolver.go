// internal/service/tierpolicy/resolver.go
package tierpolicy

import (
	"context"
	"errors"
	"time"

	"sokohub-service/internal/domain/subscription"
	"sokohub-service/internal/domain/tier"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/repository"
	"sokohub-service/internal/service/catalog"

	"go.uber.org/zap"
)

// Config carries the resolver policy constants.
type Config struct {
	GraceWindow time.Duration
	// GraceDecay multiplies the boost while a subscription sits in grace, so
	// a lapsed vendor keeps a soft landing without indefinitely outranking
	// paying competitors.
	GraceDecay float64
}

// Resolver collapses lifecycle state into the boost actually applicable to a
// vendor at an instant. Strictly read-only: resolving never mutates lifecycle
// state, which keeps the ranking path cheap and side-effect-free under load.
type Resolver struct {
	subRepo repository.SubscriptionRepository
	catalog *catalog.TierCatalog
	cfg     Config
	logger  *zap.Logger
}

func NewResolver(
	subRepo repository.SubscriptionRepository,
	catalog *catalog.TierCatalog,
	cfg Config,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		subRepo: subRepo,
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
	}
}

// baseline builds the no-boost resolution for a vendor.
func baselineTier(vendorID string, asOf time.Time) *subscription.EffectiveTier {
	return &subscription.EffectiveTier{
		VendorID:    vendorID,
		TierID:      tier.Baseline.ID,
		Ordinal:     tier.Baseline.Ordinal,
		BoostWeight: tier.Baseline.BoostWeight,
		Phase:       subscription.PhaseExpired,
		AsOf:        asOf,
	}
}

// EffectiveTier resolves the vendor's standing at asOf. Pure function of the
// stored subscription record, the catalog, and asOf: the phase is derived from
// the record's timestamps, never from a cached boost, so no stale value can
// outlive the subscription's validity window.
func (r *Resolver) EffectiveTier(ctx context.Context, vendorID string, asOf time.Time) (*subscription.EffectiveTier, error) {
	sub, err := r.subRepo.FindCurrentByVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return baselineTier(vendorID, asOf), nil
		}
		return nil, err
	}

	// Terminal records grant nothing regardless of timestamps.
	if sub.State == subscription.StateExpired || sub.State == subscription.StateCancelled {
		return baselineTier(vendorID, asOf), nil
	}

	phase := sub.PhaseAt(asOf, r.cfg.GraceWindow)

	var multiplier float64
	switch phase {
	case subscription.PhaseActive:
		multiplier = 1.0
	case subscription.PhaseGrace:
		multiplier = r.cfg.GraceDecay
	default:
		// Pending or past grace: the scheduler may not have caught up, but a
		// search at this instant must not apply the boost.
		return baselineTier(vendorID, asOf), nil
	}

	t, err := r.catalog.Resolve(sub.TierID)
	if err != nil {
		// Partial-data resilience: an unresolvable tier degrades the vendor
		// to baseline rather than failing the caller's whole query.
		r.logger.Warn("tier not resolvable, applying baseline",
			zap.String("vendor_id", vendorID),
			zap.String("tier_id", sub.TierID),
			zap.Error(err),
		)
		return baselineTier(vendorID, asOf), nil
	}

	return &subscription.EffectiveTier{
		VendorID:       vendorID,
		TierID:         t.ID,
		Ordinal:        t.Ordinal,
		BoostWeight:    t.BoostWeight * multiplier,
		Phase:          phase,
		SubscriptionID: sub.ID,
		AsOf:           asOf,
	}, nil
}
