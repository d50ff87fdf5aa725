package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// InProcessEventBus delivers events synchronously to consumers in the same
// process. It stands in for the broker when none is configured, so Publish
// never fails the caller: bad envelopes and consumer errors are logged.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger

	// serializes deliveries so consumers observe events in publish order
	mu sync.Mutex
}

// NewInProcessEventBus creates a bus with an empty registry.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer binds a consumer to its declared patterns.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes the envelope and dispatches it. An envelope without a
// routing key takes the one it was published under.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		b.logger.ErrorContext(ctx, "dropping undecodable event",
			"routing_key", routingKey,
			observability.ErrorKey, err,
		)
		return nil
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	b.mu.Lock()
	start := time.Now()
	err := b.registry.Dispatch(ctx, &event)
	elapsed := time.Since(start)
	b.mu.Unlock()

	attrs := []any{
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		observability.DurationKey, elapsed.Milliseconds(),
	}
	if err != nil {
		b.logger.WarnContext(ctx, "event delivered with consumer failures", append(attrs, observability.ErrorKey, err)...)
		return nil
	}
	b.logger.DebugContext(ctx, "event delivered", attrs...)
	return nil
}

// Close implements Publisher; there is nothing to release.
func (b *InProcessEventBus) Close() error {
	return nil
}

// Registry exposes the consumer registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}
