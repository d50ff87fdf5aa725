// Package subscribers contains event consumers of the allocation context.
package subscribers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// RecommendationSubscriber keeps the latest recommendation per task and logs
// each one. In local mode it is the in-process consumer of ranking events.
type RecommendationSubscriber struct {
	logger *slog.Logger

	mu     sync.RWMutex
	latest map[int64]queries.MatchRecommended
}

// NewRecommendationSubscriber creates a new recommendation subscriber.
func NewRecommendationSubscriber(logger *slog.Logger) *RecommendationSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationSubscriber{
		logger: logger,
		latest: make(map[int64]queries.MatchRecommended),
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *RecommendationSubscriber) EventTypes() []string {
	return []string{queries.RoutingKeyMatchRecommended}
}

// Handle processes an event.
func (s *RecommendationSubscriber) Handle(ctx context.Context, event *eventbus.Event) error {
	var rec queries.MatchRecommended
	if err := event.Decode(&rec); err != nil {
		return fmt.Errorf("failed to decode %s event %s: %w", event.RoutingKey, event.EventID, err)
	}

	s.mu.Lock()
	s.latest[rec.TaskID] = rec
	s.mu.Unlock()

	s.logger.InfoContext(observability.WithCorrelationID(ctx, event.CorrelationID), "match recommended",
		"task_id", rec.TaskID,
		"user_id", rec.UserID,
		"score", rec.Score,
		"candidates", rec.Candidates,
		"excluded", rec.Excluded,
	)
	return nil
}

// Latest returns the most recent recommendation for the task.
func (s *RecommendationSubscriber) Latest(taskID int64) (queries.MatchRecommended, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.latest[taskID]
	return rec, ok
}
