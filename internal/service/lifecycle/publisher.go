// internal/service/lifecycle/publisher.go
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sokohub-service/internal/domain/subscription"
	"sokohub-service/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventPublisher is the boundary to the notification collaborator. Delivery
// beyond this point (retry with backoff, fan-out, dedup) is the collaborator's
// job, not ours.
type EventPublisher interface {
	Publish(ctx context.Context, event *subscription.LifecycleEvent) error
}

// RedisPublisher emits lifecycle events onto a Redis pub/sub channel with a
// small bounded retry. At-least-once: consumers deduplicate by
// (subscription_id, type, occurred_at).
type RedisPublisher struct {
	client     *redis.Client
	channel    string
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewRedisPublisher(client *redis.Client, channel string, retries int, retryDelay time.Duration, logger *zap.Logger) *RedisPublisher {
	if retries < 1 {
		retries = 1
	}
	return &RedisPublisher{
		client:     client,
		channel:    channel,
		retries:    retries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event *subscription.LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= p.retries; attempt++ {
		if err := p.client.Publish(ctx, p.channel, payload).Err(); err == nil {
			metrics.EventsPublished.Inc()
			return nil
		} else {
			lastErr = err
		}

		if attempt < p.retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}
	}

	metrics.EventsDropped.Inc()
	p.logger.Warn("lifecycle event dropped after retries",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subscription_id", event.SubscriptionID),
		zap.Error(lastErr),
	)
	return fmt.Errorf("failed to publish lifecycle event: %w", lastErr)
}

// MemoryPublisher records events in memory. Used by tests and local runs
// without Redis.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []subscription.LifecycleEvent
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(ctx context.Context, event *subscription.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []subscription.LifecycleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]subscription.LifecycleEvent, len(p.events))
	copy(out, p.events)
	return out
}
