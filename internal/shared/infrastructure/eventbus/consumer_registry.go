package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// ConsumerRegistry binds consumers to routing-key patterns and dispatches
// events to every consumer whose pattern matches. Patterns follow AMQP topic
// rules: words are dot separated, "*" matches exactly one word and "#"
// matches zero or more.
type ConsumerRegistry struct {
	mu        sync.RWMutex
	consumers []EventConsumer
	bindings  []binding
	logger    *slog.Logger
}

type binding struct {
	pattern  []string
	consumer int // index into consumers
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register binds the consumer to each pattern it declares.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := len(r.consumers)
	r.consumers = append(r.consumers, consumer)
	for _, pattern := range consumer.EventTypes() {
		r.bindings = append(r.bindings, binding{pattern: strings.Split(pattern, "."), consumer: idx})
		r.logger.Debug("bound consumer", "pattern", pattern)
	}
}

// Match returns the consumers bound to routingKey in binding order. A
// registration bound through several matching patterns appears once.
func (r *ConsumerRegistry) Match(routingKey string) []EventConsumer {
	words := strings.Split(routingKey, ".")

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []EventConsumer
	seen := make(map[int]struct{})
	for _, b := range r.bindings {
		if _, dup := seen[b.consumer]; dup || !topicMatch(b.pattern, words) {
			continue
		}
		seen[b.consumer] = struct{}{}
		matched = append(matched, r.consumers[b.consumer])
	}
	return matched
}

// Bindings returns the number of pattern bindings.
func (r *ConsumerRegistry) Bindings() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Dispatch delivers the event to every matching consumer. A failing or
// panicking consumer does not stop the others; failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *Event) error {
	consumers := r.Match(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.DebugContext(ctx, "no consumer bound", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := deliver(ctx, consumer, event); err != nil {
			r.logger.ErrorContext(ctx, "consumer failed",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				observability.ErrorKey, err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, consumer EventConsumer, event *Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("consumer panicked on %s: %v", event.RoutingKey, p)
		}
	}()
	return consumer.Handle(ctx, event)
}

func topicMatch(pattern, words []string) bool {
	if len(pattern) == 0 {
		return len(words) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(words); i++ {
			if topicMatch(pattern[1:], words[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(words) > 0 && topicMatch(pattern[1:], words[1:])
	default:
		return len(words) > 0 && pattern[0] == words[0] && topicMatch(pattern[1:], words[1:])
	}
}
