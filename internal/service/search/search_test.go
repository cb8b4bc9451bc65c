package search

import (
	"context"
	"testing"
	"time"

	"sokohub-service/internal/domain/subscription"
	"sokohub-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSearchEndToEnd(t *testing.T) {
	subRepo := memory.NewSubscriptionRepository()
	seedActiveSub(t, subRepo, "01HSUBA", "v-premium", "premium", subscription.StateActive)

	productRepo := memory.NewProductRepository()
	ctx := context.Background()
	require.NoError(t, productRepo.Create(ctx, listing("p-boosted", "v-premium", asOf.Add(-24*time.Hour))))
	require.NoError(t, productRepo.Create(ctx, listing("p-plain", "v-plain", asOf)))

	hidden := listing("p-hidden", "v-plain", asOf)
	hidden.Active = false
	require.NoError(t, productRepo.Create(ctx, hidden))

	svc := NewService(
		NewCandidateSelector(productRepo),
		newEngine(t, subRepo),
		2*time.Second,
		zap.NewNop(),
	)
	svc.Now = func() time.Time { return asOf }

	result, err := svc.Search(ctx, "nairobi", "electronics")
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, "p-boosted", result.Items[0].ProductID)
	assert.Equal(t, "p-plain", result.Items[1].ProductID)
	assert.Equal(t, asOf, result.AsOf)
	assert.False(t, result.Degraded)
}

func TestSearchNoMatches(t *testing.T) {
	svc := NewService(
		NewCandidateSelector(memory.NewProductRepository()),
		newEngine(t, memory.NewSubscriptionRepository()),
		2*time.Second,
		zap.NewNop(),
	)
	svc.Now = func() time.Time { return asOf }

	result, err := svc.Search(context.Background(), "nairobi", "")
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}
