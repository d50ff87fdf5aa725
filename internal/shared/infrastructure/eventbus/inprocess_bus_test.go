package eventbus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

type recommended struct {
	TaskID int64   `json:"task_id"`
	Score  float64 `json:"score"`
}

func TestInProcessEventBus_PublishEvent(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	consumer := &mockConsumer{eventTypes: []string{"allocation.match.recommended"}}
	bus.RegisterConsumer(consumer)

	ctx := observability.WithCorrelationID(context.Background(), "corr-1")
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	event, err := eventbus.NewEvent(ctx, "allocation.match.recommended", recommended{TaskID: 7, Score: 88.5}, at)
	require.NoError(t, err)

	require.NoError(t, eventbus.PublishEvent(ctx, bus, event))

	require.Len(t, consumer.events, 1)
	got := consumer.events[0]
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, "corr-1", got.CorrelationID)
	assert.True(t, at.Equal(got.OccurredAt))

	var payload recommended
	require.NoError(t, got.Decode(&payload))
	assert.Equal(t, recommended{TaskID: 7, Score: 88.5}, payload)
}

func TestInProcessEventBus_FillsMissingRoutingKey(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	consumer := &mockConsumer{eventTypes: []string{"allocation.match.recommended"}}
	bus.RegisterConsumer(consumer)

	err := bus.Publish(context.Background(), "allocation.match.recommended", []byte(`{"payload":{}}`))

	require.NoError(t, err)
	require.Len(t, consumer.events, 1)
	assert.Equal(t, "allocation.match.recommended", consumer.events[0].RoutingKey)
}

func TestInProcessEventBus_ConsumerErrorDoesNotFailPublish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	consumer := &mockConsumer{
		eventTypes: []string{"allocation.match.recommended"},
		err:        errors.New("consumer failed"),
	}
	bus.RegisterConsumer(consumer)

	event, err := eventbus.NewEvent(context.Background(), "allocation.match.recommended", recommended{TaskID: 1}, time.Now())
	require.NoError(t, err)

	assert.NoError(t, eventbus.PublishEvent(context.Background(), bus, event))
	assert.Len(t, consumer.events, 1)
}

func TestInProcessEventBus_InvalidPayload(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(testLogger())
	consumer := &mockConsumer{eventTypes: []string{"allocation.match.recommended"}}
	bus.RegisterConsumer(consumer)

	err := bus.Publish(context.Background(), "allocation.match.recommended", []byte("not json"))

	assert.NoError(t, err)
	assert.Empty(t, consumer.events)
}

func TestInProcessEventBus_Registry(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	bus.RegisterConsumer(&mockConsumer{eventTypes: []string{"a", "b"}})

	assert.Equal(t, 2, bus.Registry().Bindings())
	assert.NoError(t, bus.Close())
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)

	assert.NoError(t, p.Publish(context.Background(), "allocation.match.recommended", []byte("{}")))
	assert.NoError(t, p.Close())
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := eventbus.NewEvent(context.Background(), "allocation.match.recommended", make(chan int), time.Now())

	assert.ErrorContains(t, err, "failed to encode allocation.match.recommended payload")
}
