// internal/service/scheduler/scheduler.go
package scheduler

import (
	"context"
	"sync"
	"time"

	"sokohub-service/internal/metrics"
	"sokohub-service/internal/repository"
	"sokohub-service/internal/service/lifecycle"

	"go.uber.org/zap"
)

// Config carries the scheduler's cadence and concurrency limits.
type Config struct {
	Interval       time.Duration
	MaxConcurrency int
}

// Scheduler is the single periodic driver of lifecycle transitions. Each
// sweep enumerates subscriptions whose expiry or grace boundary has passed
// and applies exactly one transition per record through the manager.
// Sweeps are idempotent: a record already in its target state is a no-op, so
// overlapping or retried runs are harmless.
type Scheduler struct {
	subRepo repository.SubscriptionRepository
	manager *lifecycle.Manager
	cfg     Config
	logger  *zap.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

func NewScheduler(
	subRepo repository.SubscriptionRepository,
	manager *lifecycle.Manager,
	cfg Config,
	logger *zap.Logger,
) *Scheduler {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	return &Scheduler{
		subRepo: subRepo,
		manager: manager,
		cfg:     cfg,
		logger:  logger,
		Now:     time.Now,
	}
}

// Start runs the sweep loop until the context is cancelled. The first sweep
// fires immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("lifecycle scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("max_concurrency", s.cfg.MaxConcurrency),
	)

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("lifecycle sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lifecycle scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("lifecycle sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs one sweep. A record that keeps losing its version race is
// deferred to the next cycle rather than failing the batch.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	asOf := s.Now()
	timer := metrics.NewTimer(metrics.SchedulerRunDuration)
	defer timer.ObserveDuration()

	due, err := s.subRepo.ListDueForTransition(ctx, asOf, s.manager.GraceWindow())
	if err != nil {
		return err
	}

	if len(due) == 0 {
		return nil
	}

	s.logger.Info("lifecycle sweep started",
		zap.Int("due_count", len(due)),
		zap.Time("as_of", asOf),
	)

	sem := make(chan struct{}, s.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	var mu sync.Mutex
	applied, deferred := 0, 0

	for _, sub := range due {
		wg.Add(1)
		sem <- struct{}{}

		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			next, err := s.manager.ApplyDue(ctx, id, asOf)
			if err != nil {
				metrics.TransitionsDeferred.Inc()
				s.logger.Warn("transition deferred to next cycle",
					zap.String("subscription_id", id),
					zap.Error(err),
				)
				mu.Lock()
				deferred++
				mu.Unlock()
				return
			}
			if next != "" {
				metrics.TransitionsApplied.WithLabelValues(string(next)).Inc()
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}(sub.ID)
	}

	wg.Wait()

	s.logger.Info("lifecycle sweep completed",
		zap.Int("due_count", len(due)),
		zap.Int("applied", applied),
		zap.Int("deferred", deferred),
	)

	return nil
}
