// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokohub-service/internal/domain/subscription"
	xerrors "sokohub-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `
	id, vendor_id, tier_id, start_at, end_at,
	state, auto_renew, superseded_by, cancelled_at,
	version, created_at, updated_at
`

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := row.Scan(
		&sub.ID, &sub.VendorID, &sub.TierID, &sub.StartAt, &sub.EndAt,
		&sub.State, &sub.AutoRenew, &sub.SupersededBy, &sub.CancelledAt,
		&sub.Version, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &sub, nil
}

// Create inserts a new subscription record.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, vendor_id, tier_id, start_at, end_at,
			state, auto_renew, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING version, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		sub.ID, sub.VendorID, sub.TierID, sub.StartAt, sub.EndAt,
		sub.State, sub.AutoRenew,
	).Scan(&sub.Version, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByID retrieves a subscription by ID.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

// FindCurrentByVendor retrieves the vendor's most recent non-superseded
// subscription.
func (r *SubscriptionRepository) FindCurrentByVendor(ctx context.Context, vendorID string) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE vendor_id = $1 AND state <> 'superseded'
		ORDER BY start_at DESC, id DESC
		LIMIT 1
	`
	return scanSubscription(r.db.QueryRow(ctx, query, vendorID))
}

// UpdateStateCAS advances state with a compare-and-set on (id, version).
// A zero-row update means another writer won the race.
func (r *SubscriptionRepository) UpdateStateCAS(ctx context.Context, id string, expectedVersion int64, next subscription.State, at time.Time) error {
	query := `
		UPDATE subscriptions
		SET state = $1,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN $2 ELSE cancelled_at END,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3 AND version = $4
	`

	result, err := r.db.Exec(ctx, query, next, at, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update subscription state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrVersionConflict
	}

	return nil
}

// Supersede terminates the prior record and inserts its renewal successor in
// one transaction. A failure on either statement rolls back both, so a vendor
// can never end up with a superseded record and no replacement.
func (r *SubscriptionRepository) Supersede(ctx context.Context, priorID string, expectedVersion int64, successor *subscription.Subscription, at time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	supersedeQuery := `
		UPDATE subscriptions
		SET state = 'superseded',
		    superseded_by = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3 AND version = $4
	`

	result, err := tx.Exec(ctx, supersedeQuery, successor.ID, at, priorID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to mark subscription superseded: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrVersionConflict
	}

	insertQuery := `
		INSERT INTO subscriptions (
			id, vendor_id, tier_id, start_at, end_at,
			state, auto_renew, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING version, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, insertQuery,
		successor.ID, successor.VendorID, successor.TierID, successor.StartAt, successor.EndAt,
		successor.State, successor.AutoRenew,
	).Scan(&successor.Version, &successor.CreatedAt, &successor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create renewal subscription: %w", err)
	}

	return tx.Commit(ctx)
}

// ListDueForTransition returns non-terminal subscriptions whose stored state
// lags behind what their timestamps call for at the given instant.
func (r *SubscriptionRepository) ListDueForTransition(ctx context.Context, asOf time.Time, graceWindow time.Duration) ([]*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE state IN ('pending', 'active', 'grace')
		  AND (
		       (state = 'pending' AND start_at <= $1)
		    OR (state = 'active' AND end_at < $1)
		    OR (state = 'grace' AND end_at + $2::interval <= $1)
		  )
		ORDER BY end_at ASC
	`

	rows, err := r.db.Query(ctx, query, asOf, graceWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due subscriptions: %w", err)
	}

	return subs, nil
}
