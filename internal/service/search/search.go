// internal/service/search/search.go
package search

import (
	"context"
	"time"

	"sokohub-service/internal/domain/product"
	"sokohub-service/internal/metrics"

	"go.uber.org/zap"
)

// Service is the search entry point consumed by the presentation layer. It
// composes candidate selection and ranking under one asOf timestamp captured
// at request start, so a lifecycle transition mid-request can never produce a
// self-inconsistent ordering.
type Service struct {
	selector *CandidateSelector
	ranking  *RankingEngine
	timeout  time.Duration
	logger   *zap.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func NewService(selector *CandidateSelector, ranking *RankingEngine, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		selector: selector,
		ranking:  ranking,
		timeout:  timeout,
		logger:   logger,
		Now:      time.Now,
	}
}

// Search runs one query. Region and category are optional exact filters;
// deactivated products never appear.
func (s *Service) Search(ctx context.Context, region, category string) (*product.RankedResult, error) {
	asOf := s.Now()
	timer := metrics.NewTimer(metrics.SearchDuration)
	defer timer.ObserveDuration()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	candidates, err := s.selector.Select(ctx, region, category, true)
	if err != nil {
		return nil, err
	}

	result, err := s.ranking.Rank(ctx, candidates, asOf)
	if err != nil {
		return nil, err
	}

	if result.Degraded {
		metrics.SearchDegraded.Inc()
		s.logger.Warn("search degraded to baseline scoring",
			zap.String("region", region),
			zap.String("category", category),
			zap.Int("candidates", len(candidates)),
		)
	}

	return result, nil
}
