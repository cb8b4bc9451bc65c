// internal/service/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"sokohub-service/internal/domain/tier"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/repository"

	"go.uber.org/zap"
)

// TierCatalog holds the tier definitions in an atomically-swapped snapshot.
// Reads never block and never observe a half-applied reload.
type TierCatalog struct {
	tierRepo repository.TierRepository
	snapshot atomic.Pointer[map[string]*tier.Tier]
	logger   *zap.Logger
}

func NewTierCatalog(tierRepo repository.TierRepository, logger *zap.Logger) *TierCatalog {
	c := &TierCatalog{
		tierRepo: tierRepo,
		logger:   logger,
	}
	empty := map[string]*tier.Tier{}
	c.snapshot.Store(&empty)
	return c
}

// Reload replaces the snapshot from storage. Administrative operation; safe
// against concurrent readers.
func (c *TierCatalog) Reload(ctx context.Context) error {
	tiers, err := c.tierRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tier definitions: %w", err)
	}

	next := make(map[string]*tier.Tier, len(tiers))
	for _, t := range tiers {
		next[t.ID] = t
	}
	c.snapshot.Store(&next)

	c.logger.Info("tier catalog reloaded", zap.Int("tier_count", len(next)))
	return nil
}

// Resolve returns the tier definition for the given ID.
func (c *TierCatalog) Resolve(tierID string) (*tier.Tier, error) {
	snap := *c.snapshot.Load()
	t, ok := snap[tierID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrUnknownTier, tierID)
	}
	return t, nil
}

// BoostWeight returns the tier's boost multiplier.
func (c *TierCatalog) BoostWeight(tierID string) (float64, error) {
	t, err := c.Resolve(tierID)
	if err != nil {
		return 0, err
	}
	return t.BoostWeight, nil
}

// Ordinal returns the tier's rank, used for stable tie-breaking.
func (c *TierCatalog) Ordinal(tierID string) (int, error) {
	t, err := c.Resolve(tierID)
	if err != nil {
		return 0, err
	}
	return t.Ordinal, nil
}

// List returns the current snapshot's tiers, retired ones excluded.
func (c *TierCatalog) List() []*tier.Tier {
	snap := *c.snapshot.Load()
	out := make([]*tier.Tier, 0, len(snap))
	for _, t := range snap {
		if !t.Retired {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}
