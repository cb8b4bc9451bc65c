// internal/repository/memory/tier_repo.go
package memory

import (
	"context"
	"sort"
	"sync"

	"sokohub-service/internal/domain/tier"
)

type TierRepository struct {
	mu    sync.RWMutex
	tiers map[string]*tier.Tier
}

func NewTierRepository(tiers ...*tier.Tier) *TierRepository {
	r := &TierRepository{tiers: make(map[string]*tier.Tier)}
	for _, t := range tiers {
		c := *t
		r.tiers[t.ID] = &c
	}
	return r
}

// Put registers or replaces a tier definition.
func (r *TierRepository) Put(t *tier.Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *t
	r.tiers[t.ID] = &c
}

func (r *TierRepository) ListAll(ctx context.Context) ([]*tier.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*tier.Tier, 0, len(r.tiers))
	for _, t := range r.tiers {
		c := *t
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })

	return out, nil
}
