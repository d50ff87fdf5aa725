package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// PublishEvent encodes the envelope and publishes it under its routing key.
func PublishEvent(ctx context.Context, p Publisher, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.EventID, err)
	}
	return p.Publish(ctx, event.RoutingKey, payload)
}
