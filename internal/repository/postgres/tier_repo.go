// internal/repository/postgres/tier_repo.go
package postgres

import (
	"context"
	"fmt"

	"sokohub-service/internal/domain/tier"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TierRepository struct {
	db *pgxpool.Pool
}

func NewTierRepository(db *pgxpool.Pool) *TierRepository {
	return &TierRepository{db: db}
}

// ListAll returns every tier definition, retired ones included. Retired tiers
// stay resolvable because historical subscriptions still reference them.
func (r *TierRepository) ListAll(ctx context.Context) ([]*tier.Tier, error) {
	query := `
		SELECT id, name, ordinal, boost_weight, features, retired, created_at, updated_at
		FROM tiers
		ORDER BY ordinal ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiers: %w", err)
	}
	defer rows.Close()

	var tiers []*tier.Tier
	for rows.Next() {
		var t tier.Tier
		if err := rows.Scan(&t.ID, &t.Name, &t.Ordinal, &t.BoostWeight, &t.Features, &t.Retired, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		tiers = append(tiers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tiers: %w", err)
	}

	return tiers, nil
}
