// Package memory provides mutex-guarded in-memory implementations of the
// repository contracts for tests and infrastructure-free local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sokohub-service/internal/domain/subscription"
	xerrors "sokohub-service/internal/pkg/errors"
)

type SubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]*subscription.Subscription
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: make(map[string]*subscription.Subscription)}
}

func cloneSub(s *subscription.Subscription) *subscription.Subscription {
	c := *s
	return &c
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[sub.ID]; exists {
		return xerrors.ErrDuplicateEntry
	}

	now := time.Now()
	sub.Version = 1
	sub.CreatedAt = now
	sub.UpdatedAt = now
	r.subs[sub.ID] = cloneSub(sub)
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return cloneSub(sub), nil
}

func (r *SubscriptionRepository) FindCurrentByVendor(ctx context.Context, vendorID string) (*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var current *subscription.Subscription
	for _, sub := range r.subs {
		if sub.VendorID != vendorID || sub.State == subscription.StateSuperseded {
			continue
		}
		if current == nil || sub.StartAt.After(current.StartAt) ||
			(sub.StartAt.Equal(current.StartAt) && sub.ID > current.ID) {
			current = sub
		}
	}
	if current == nil {
		return nil, xerrors.ErrNotFound
	}
	return cloneSub(current), nil
}

func (r *SubscriptionRepository) UpdateStateCAS(ctx context.Context, id string, expectedVersion int64, next subscription.State, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if sub.Version != expectedVersion {
		return xerrors.ErrVersionConflict
	}

	sub.State = next
	if next == subscription.StateCancelled {
		sub.CancelledAt.Time = at
		sub.CancelledAt.Valid = true
	}
	sub.Version++
	sub.UpdatedAt = at
	return nil
}

func (r *SubscriptionRepository) Supersede(ctx context.Context, priorID string, expectedVersion int64, successor *subscription.Subscription, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prior, ok := r.subs[priorID]
	if !ok {
		return xerrors.ErrNotFound
	}
	if prior.Version != expectedVersion {
		return xerrors.ErrVersionConflict
	}
	// All checks before any mutation, so a failure leaves the prior record
	// untouched.
	if _, exists := r.subs[successor.ID]; exists {
		return xerrors.ErrDuplicateEntry
	}

	successor.Version = 1
	successor.CreatedAt = at
	successor.UpdatedAt = at
	r.subs[successor.ID] = cloneSub(successor)

	prior.State = subscription.StateSuperseded
	prior.SupersededBy.String = successor.ID
	prior.SupersededBy.Valid = true
	prior.Version++
	prior.UpdatedAt = at
	return nil
}

func (r *SubscriptionRepository) ListDueForTransition(ctx context.Context, asOf time.Time, graceWindow time.Duration) ([]*subscription.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*subscription.Subscription
	for _, sub := range r.subs {
		if sub.DueStateAt(asOf, graceWindow) != "" {
			due = append(due, cloneSub(sub))
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].EndAt.Equal(due[j].EndAt) {
			return due[i].EndAt.Before(due[j].EndAt)
		}
		return due[i].ID < due[j].ID
	})

	return due, nil
}
