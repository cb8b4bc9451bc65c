// internal/service/search/selector.go
package search

import (
	"context"
	"fmt"

	"sokohub-service/internal/domain/product"
	"sokohub-service/internal/repository"
)

// CandidateSelector narrows the product catalog to the candidates eligible
// for one query. Pure filtering, no ranking: the candidate set is computable
// independently of tier state, which may move between selection and scoring
// within the query's own latency window.
type CandidateSelector struct {
	productRepo repository.ProductRepository
}

func NewCandidateSelector(productRepo repository.ProductRepository) *CandidateSelector {
	return &CandidateSelector{productRepo: productRepo}
}

// Select returns the eligible candidates. Empty region/category act as
// wildcards; activeOnly excludes deactivated listings.
func (s *CandidateSelector) Select(ctx context.Context, region, category string, activeOnly bool) ([]*product.Product, error) {
	candidates, err := s.productRepo.Select(ctx, product.Filters{
		Region:     region,
		Category:   category,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select candidates: %w", err)
	}
	return candidates, nil
}
