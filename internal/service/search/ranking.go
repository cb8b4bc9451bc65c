// internal/service/search/ranking.go
package search

import (
	"context"
	"math"
	"sort"
	"time"

	"sokohub-service/internal/domain/product"
	"sokohub-service/internal/domain/subscription"
	"sokohub-service/internal/domain/tier"
	"sokohub-service/internal/service/tierpolicy"

	"go.uber.org/zap"
)

// RankingConfig carries the scoring policy constants.
type RankingConfig struct {
	// RecencyHalfLife controls the exponential decay of the freshness factor.
	RecencyHalfLife time.Duration
}

// RankingEngine orders a candidate set by effective tier boost and listing
// freshness. Scoring is deterministic: identical stored state and asOf yield
// identical orderings, byte for byte.
type RankingEngine struct {
	resolver *tierpolicy.Resolver
	cfg      RankingConfig
	logger   *zap.Logger
}

func NewRankingEngine(resolver *tierpolicy.Resolver, cfg RankingConfig, logger *zap.Logger) *RankingEngine {
	return &RankingEngine{
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// recencyFactor decays monotonically with elapsed time since last update,
// bounded in (0, 1]. Half the weight is gone after one half-life.
func (e *RankingEngine) recencyFactor(updatedAt, asOf time.Time) float64 {
	elapsed := asOf.Sub(updatedAt)
	if elapsed <= 0 {
		return 1.0
	}
	halfLives := float64(elapsed) / float64(e.cfg.RecencyHalfLife)
	return math.Pow(2, -halfLives)
}

// Rank scores and orders the candidates at the single asOf captured by the
// caller at request start. An empty candidate set is an empty result, not an
// error. Vendors whose tier cannot be resolved score at baseline. If the
// request context expires mid-ranking, the remaining candidates are scored at
// baseline and the result is flagged degraded instead of failing.
func (e *RankingEngine) Rank(ctx context.Context, candidates []*product.Product, asOf time.Time) (*product.RankedResult, error) {
	result := &product.RankedResult{
		Items: make([]product.RankedItem, 0, len(candidates)),
		AsOf:  asOf,
	}
	if len(candidates) == 0 {
		return result, nil
	}

	// One resolution per distinct vendor per request: every product of one
	// vendor sees the same standing under the shared asOf.
	tiers := make(map[string]*subscription.EffectiveTier)

	for _, p := range candidates {
		eff, ok := tiers[p.VendorID]
		if !ok {
			if ctx.Err() != nil {
				result.Degraded = true
			}
			if result.Degraded {
				eff = &subscription.EffectiveTier{
					VendorID:    p.VendorID,
					TierID:      tier.Baseline.ID,
					Ordinal:     tier.Baseline.Ordinal,
					BoostWeight: tier.Baseline.BoostWeight,
					AsOf:        asOf,
				}
			} else {
				resolved, err := e.resolver.EffectiveTier(ctx, p.VendorID, asOf)
				if err != nil {
					e.logger.Warn("tier resolution failed, scoring at baseline",
						zap.String("vendor_id", p.VendorID),
						zap.Error(err),
					)
					resolved = &subscription.EffectiveTier{
						VendorID:    p.VendorID,
						TierID:      tier.Baseline.ID,
						Ordinal:     tier.Baseline.Ordinal,
						BoostWeight: tier.Baseline.BoostWeight,
						AsOf:        asOf,
					}
				}
				eff = resolved
			}
			tiers[p.VendorID] = eff
		}

		score := eff.BoostWeight * e.recencyFactor(p.UpdatedAt, asOf)
		result.Items = append(result.Items, product.RankedItem{
			ProductID:   p.ID,
			VendorID:    p.VendorID,
			Title:       p.Title,
			Score:       score,
			TierID:      eff.TierID,
			TierOrdinal: eff.Ordinal,
		})
	}

	// Score descending, then tier ordinal descending so the nominally higher
	// tier wins exact score ties, then product id ascending for full
	// determinism.
	sort.Slice(result.Items, func(i, j int) bool {
		a, b := result.Items[i], result.Items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TierOrdinal != b.TierOrdinal {
			return a.TierOrdinal > b.TierOrdinal
		}
		return a.ProductID < b.ProductID
	})

	return result, nil
}
