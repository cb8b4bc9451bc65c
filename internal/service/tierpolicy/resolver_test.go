package tierpolicy

import (
	"context"
	"testing"
	"time"

	"sokohub-service/internal/domain/subscription"
	"sokohub-service/internal/domain/tier"
	"sokohub-service/internal/repository/memory"
	"sokohub-service/internal/service/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var endAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const graceWindow = 14 * 24 * time.Hour

func newResolver(t *testing.T, repo *memory.SubscriptionRepository) *Resolver {
	t.Helper()

	tierRepo := memory.NewTierRepository(
		&tier.Tier{ID: "standard", Name: "Standard", Ordinal: 1, BoostWeight: 1.2},
		&tier.Tier{ID: "premium", Name: "Premium", Ordinal: 2, BoostWeight: 2.0},
	)
	cat := catalog.NewTierCatalog(tierRepo, zap.NewNop())
	require.NoError(t, cat.Reload(context.Background()))

	return NewResolver(repo, cat, Config{
		GraceWindow: graceWindow,
		GraceDecay:  0.5,
	}, zap.NewNop())
}

func seedSub(t *testing.T, repo *memory.SubscriptionRepository, state subscription.State, tierID string) *subscription.Subscription {
	t.Helper()
	sub := &subscription.Subscription{
		ID:       "01HSUB",
		VendorID: "vendor-1",
		TierID:   tierID,
		StartAt:  endAt.Add(-30 * 24 * time.Hour),
		EndAt:    endAt,
		State:    state,
	}
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

func TestEffectiveTierBoundaries(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	seedSub(t, repo, subscription.StateActive, "premium")
	r := newResolver(t, repo)

	tests := []struct {
		name      string
		asOf      time.Time
		wantTier  string
		wantBoost float64
		wantPhase subscription.Phase
	}{
		{"mid period full boost", endAt.Add(-time.Hour), "premium", 2.0, subscription.PhaseActive},
		{"exactly at end still active", endAt, "premium", 2.0, subscription.PhaseActive},
		{"just past end decays", endAt.Add(time.Second), "premium", 1.0, subscription.PhaseGrace},
		{"last instant of grace", endAt.Add(graceWindow - time.Second), "premium", 1.0, subscription.PhaseGrace},
		{"grace boundary is baseline", endAt.Add(graceWindow), "baseline", 1.0, subscription.PhaseExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff, err := r.EffectiveTier(context.Background(), "vendor-1", tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, eff.TierID)
			assert.Equal(t, tt.wantBoost, eff.BoostWeight)
			assert.Equal(t, tt.wantPhase, eff.Phase)
			assert.Equal(t, tt.asOf, eff.AsOf)
		})
	}
}

func TestEffectiveTierGraceDecayMultiplier(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	seedSub(t, repo, subscription.StateGrace, "standard")
	r := newResolver(t, repo)

	eff, err := r.EffectiveTier(context.Background(), "vendor-1", endAt.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, subscription.PhaseGrace, eff.Phase)
	assert.Equal(t, 1.2*0.5, eff.BoostWeight)
	assert.Equal(t, 1, eff.Ordinal)
}

func TestEffectiveTierNoSubscription(t *testing.T) {
	r := newResolver(t, memory.NewSubscriptionRepository())

	eff, err := r.EffectiveTier(context.Background(), "vendor-unknown", endAt)
	require.NoError(t, err)
	assert.Equal(t, tier.Baseline.ID, eff.TierID)
	assert.Equal(t, 1.0, eff.BoostWeight)
	assert.Equal(t, 0, eff.Ordinal)
	assert.Empty(t, eff.SubscriptionID)
}

func TestEffectiveTierTerminalStates(t *testing.T) {
	for _, state := range []subscription.State{subscription.StateExpired, subscription.StateCancelled} {
		t.Run(string(state), func(t *testing.T) {
			repo := memory.NewSubscriptionRepository()
			// Timestamps alone would place the record in grace; the terminal
			// state wins.
			seedSub(t, repo, state, "premium")
			r := newResolver(t, repo)

			eff, err := r.EffectiveTier(context.Background(), "vendor-1", endAt.Add(time.Hour))
			require.NoError(t, err)
			assert.Equal(t, tier.Baseline.ID, eff.TierID)
			assert.Equal(t, 1.0, eff.BoostWeight)
		})
	}
}

func TestEffectiveTierPendingIsBaseline(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	sub := seedSub(t, repo, subscription.StatePending, "premium")
	r := newResolver(t, repo)

	eff, err := r.EffectiveTier(context.Background(), "vendor-1", sub.StartAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, tier.Baseline.ID, eff.TierID)
	assert.Equal(t, 1.0, eff.BoostWeight)
}

func TestEffectiveTierUnresolvableTierDegradesToBaseline(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	seedSub(t, repo, subscription.StateActive, "ghost-tier")
	r := newResolver(t, repo)

	eff, err := r.EffectiveTier(context.Background(), "vendor-1", endAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, tier.Baseline.ID, eff.TierID)
	assert.Equal(t, 1.0, eff.BoostWeight)
}
