// internal/service/lifecycle/manager.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sokohub-service/internal/domain/subscription"
	xerrors "sokohub-service/internal/pkg/errors"
	"sokohub-service/internal/repository"
	"sokohub-service/internal/service/catalog"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Config carries the lifecycle policy constants. They are configuration, not
// hardcoded business assumptions.
type Config struct {
	GraceWindow       time.Duration
	TransitionRetries int
}

// Manager owns every mutation of subscription state. Transitions for one
// subscription are serialized through version CAS; transitions across
// subscriptions proceed in parallel. Nothing else in the system writes
// subscription records.
type Manager struct {
	subRepo   repository.SubscriptionRepository
	catalog   *catalog.TierCatalog
	publisher EventPublisher
	cfg       Config
	logger    *zap.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func NewManager(
	subRepo repository.SubscriptionRepository,
	catalog *catalog.TierCatalog,
	publisher EventPublisher,
	cfg Config,
	logger *zap.Logger,
) *Manager {
	if cfg.TransitionRetries < 1 {
		cfg.TransitionRetries = 3
	}
	return &Manager{
		subRepo:   subRepo,
		catalog:   catalog,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		Now:       time.Now,
	}
}

// GraceWindow exposes the configured grace window to read-side collaborators.
func (m *Manager) GraceWindow() time.Duration {
	return m.cfg.GraceWindow
}

// Purchase creates a vendor's subscription after the billing collaborator has
// captured payment. At most one active-or-grace subscription per vendor.
func (m *Manager) Purchase(ctx context.Context, req *subscription.PurchaseRequest) (*subscription.Subscription, error) {
	if _, err := m.catalog.Resolve(req.TierID); err != nil {
		return nil, err
	}

	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: end must be after start", xerrors.ErrInvalidInput)
	}

	// Reject a second concurrent subscription for the vendor.
	existing, err := m.subRepo.FindCurrentByVendor(ctx, req.VendorID)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check current subscription: %w", err)
	}
	if existing != nil && !existing.State.IsTerminal() {
		return nil, fmt.Errorf("%w: vendor already has subscription %s in state %s",
			xerrors.ErrConflict, existing.ID, existing.State)
	}

	now := m.Now()
	state := subscription.StatePending
	if !req.StartAt.After(now) {
		state = subscription.StateActive
	}

	sub := &subscription.Subscription{
		ID:        ulid.Make().String(),
		VendorID:  req.VendorID,
		TierID:    req.TierID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		State:     state,
		AutoRenew: req.AutoRenew,
	}

	if err := m.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	m.logger.Info("subscription purchased",
		zap.String("subscription_id", sub.ID),
		zap.String("vendor_id", sub.VendorID),
		zap.String("tier_id", sub.TierID),
		zap.String("state", string(sub.State)),
	)

	if state == subscription.StateActive {
		m.emit(sub, subscription.EventVisibilityGranted, now)
	}

	return sub, nil
}

// Renew applies the billing collaborator's onRenewalConfirmed event: the prior
// record becomes Superseded and a fresh subscription takes over.
func (m *Manager) Renew(ctx context.Context, req *subscription.RenewalRequest) (*subscription.Subscription, error) {
	prior, err := m.subRepo.FindByID(ctx, req.SubscriptionID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: subscription %s not found", xerrors.ErrInvalidRenewalTarget, req.SubscriptionID)
		}
		return nil, err
	}

	if prior.VendorID != req.VendorID {
		return nil, fmt.Errorf("%w: subscription %s does not belong to vendor %s",
			xerrors.ErrInvalidRenewalTarget, req.SubscriptionID, req.VendorID)
	}
	if prior.State == subscription.StateSuperseded {
		return nil, fmt.Errorf("%w: subscription %s is already superseded",
			xerrors.ErrInvalidRenewalTarget, req.SubscriptionID)
	}
	if !subscription.CanTransition(prior.State, subscription.StateSuperseded) {
		return nil, fmt.Errorf("%w: %s -> %s", xerrors.ErrIllegalTransition,
			prior.State, subscription.StateSuperseded)
	}

	now := m.Now()

	// A renewal paid during the active period continues seamlessly from the
	// old end; one paid in grace restarts from now.
	startAt := prior.EndAt
	if startAt.Before(now) {
		startAt = now
	}
	if !req.NewEndAt.After(startAt) {
		return nil, fmt.Errorf("%w: new end must be after %s", xerrors.ErrInvalidInput, startAt.Format(time.RFC3339))
	}

	successor := &subscription.Subscription{
		ID:        ulid.Make().String(),
		VendorID:  prior.VendorID,
		TierID:    prior.TierID,
		StartAt:   startAt,
		EndAt:     req.NewEndAt,
		State:     subscription.StateActive,
		AutoRenew: prior.AutoRenew,
	}
	if startAt.After(now) {
		successor.State = subscription.StatePending
	}

	// One atomic write: either the prior record is superseded and its
	// successor exists, or neither happened and the renewal can be retried.
	if err := m.subRepo.Supersede(ctx, prior.ID, prior.Version, successor, now); err != nil {
		return nil, fmt.Errorf("failed to supersede subscription %s: %w", prior.ID, err)
	}

	m.logger.Info("subscription renewed",
		zap.String("prior_id", prior.ID),
		zap.String("successor_id", successor.ID),
		zap.String("vendor_id", prior.VendorID),
		zap.Time("new_end_at", req.NewEndAt),
	)

	if successor.State == subscription.StateActive {
		m.emit(successor, subscription.EventVisibilityGranted, now)
	}

	return successor, nil
}

// Cancel applies the explicit vendor action. Reachable from Active or Grace
// only.
func (m *Manager) Cancel(ctx context.Context, vendorID, subscriptionID string) error {
	sub, err := m.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}

	if sub.VendorID != vendorID {
		return xerrors.ErrForbidden
	}
	if !subscription.CanTransition(sub.State, subscription.StateCancelled) {
		return fmt.Errorf("%w: %s -> %s", xerrors.ErrIllegalTransition,
			sub.State, subscription.StateCancelled)
	}

	now := m.Now()
	if err := m.subRepo.UpdateStateCAS(ctx, sub.ID, sub.Version, subscription.StateCancelled, now); err != nil {
		return fmt.Errorf("failed to cancel subscription %s: %w", sub.ID, err)
	}

	m.logger.Info("subscription cancelled",
		zap.String("subscription_id", sub.ID),
		zap.String("vendor_id", sub.VendorID),
	)

	m.emit(sub, subscription.EventVisibilityLost, now)
	return nil
}

// ApplyDue advances one subscription a single legal step toward the state its
// timestamps call for at asOf. No-op when the record is already caught up, so
// overlapping scheduler runs are harmless. Version conflicts are retried a
// bounded number of times against a fresh read.
func (m *Manager) ApplyDue(ctx context.Context, subscriptionID string, asOf time.Time) (subscription.State, error) {
	var lastErr error

	for attempt := 0; attempt < m.cfg.TransitionRetries; attempt++ {
		sub, err := m.subRepo.FindByID(ctx, subscriptionID)
		if err != nil {
			return "", err
		}

		next := sub.DueStateAt(asOf, m.cfg.GraceWindow)
		if next == "" {
			return "", nil
		}
		if !subscription.CanTransition(sub.State, next) {
			return "", fmt.Errorf("%w: %s -> %s", xerrors.ErrIllegalTransition, sub.State, next)
		}

		err = m.subRepo.UpdateStateCAS(ctx, sub.ID, sub.Version, next, asOf)
		if err == nil {
			m.logger.Info("lifecycle transition applied",
				zap.String("subscription_id", sub.ID),
				zap.String("vendor_id", sub.VendorID),
				zap.String("from", string(sub.State)),
				zap.String("to", string(next)),
			)
			if eventType := subscription.EventFor(next); eventType != "" {
				m.emit(sub, eventType, asOf)
			}
			return next, nil
		}

		if !errors.Is(err, xerrors.ErrVersionConflict) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("transition for %s deferred after %d conflicts: %w",
		subscriptionID, m.cfg.TransitionRetries, lastErr)
}

// emit publishes a lifecycle event to the notification boundary. Best-effort:
// a failed publish is logged by the publisher and never rolls back the
// transition it describes.
func (m *Manager) emit(sub *subscription.Subscription, eventType subscription.EventType, at time.Time) {
	event := &subscription.LifecycleEvent{
		ID:             ulid.Make().String(),
		Type:           eventType,
		VendorID:       sub.VendorID,
		SubscriptionID: sub.ID,
		TierID:         sub.TierID,
		OccurredAt:     at,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = m.publisher.Publish(ctx, event)
}
