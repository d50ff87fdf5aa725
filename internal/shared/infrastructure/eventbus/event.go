package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// Event is the envelope every message on the bus travels in.
type Event struct {
	EventID       uuid.UUID       `json:"event_id"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an envelope, carrying the correlation id from ctx.
func NewEvent(ctx context.Context, routingKey string, payload any, occurredAt time.Time) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", routingKey, err)
	}
	return &Event{
		EventID:       uuid.New(),
		RoutingKey:    routingKey,
		OccurredAt:    occurredAt.UTC(),
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		Payload:       body,
	}, nil
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventConsumer handles specific event types.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["allocation.match.recommended"].
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *Event) error
}
