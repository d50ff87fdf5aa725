package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// RoutingKeyMatchRecommended is the routing key of the event published after
// a successful ranking.
const RoutingKeyMatchRecommended = "allocation.match.recommended"

// RankCandidatesQuery asks for every user ranked against a task.
type RankCandidatesQuery struct {
	TaskID int64
	// Limit truncates the returned candidates when positive.
	Limit int
}

// MatchRecommended is the payload published for a ranking.
type MatchRecommended struct {
	TaskID     int64   `json:"task_id"`
	UserID     int64   `json:"user_id"`
	Score      float64 `json:"score"`
	Candidates int     `json:"candidates"`
	Excluded   int     `json:"excluded"`
}

// RankCandidatesHandler handles rank candidates queries.
type RankCandidatesHandler struct {
	scorer    Scorer
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
	now       func() time.Time
}

// NewRankCandidatesHandler creates a new rank candidates handler.
// A nil publisher disables event publishing.
func NewRankCandidatesHandler(scorer Scorer, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *RankCandidatesHandler {
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &RankCandidatesHandler{
		scorer:    scorer,
		publisher: publisher,
		logger:    observability.LogOperation(orDefault(logger), "rank_candidates"),
		metrics:   orNoop(metrics),
		now:       time.Now,
	}
}

// Handle executes the rank candidates query.
func (h *RankCandidatesHandler) Handle(ctx context.Context, query RankCandidatesQuery) (*services.Ranking, error) {
	ranking, err := observability.Observe(ctx, h.logger, h.metrics, "rank_candidates", func() (*services.Ranking, error) {
		return h.scorer.Rank(ctx, query.TaskID)
	})
	if err != nil {
		return nil, err
	}

	h.publish(ctx, ranking)

	if query.Limit > 0 && len(ranking.Candidates) > query.Limit {
		ranking.Candidates = ranking.Candidates[:query.Limit]
	}
	return ranking, nil
}

// publish never fails the query; the ranking is already computed.
func (h *RankCandidatesHandler) publish(ctx context.Context, ranking *services.Ranking) {
	event, err := eventbus.NewEvent(ctx, RoutingKeyMatchRecommended, MatchRecommended{
		TaskID:     ranking.Task.ID,
		UserID:     ranking.Best.UserID,
		Score:      ranking.Best.Score,
		Candidates: len(ranking.Candidates),
		Excluded:   len(ranking.Excluded),
	}, h.now())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode match event", observability.ErrorKey, err)
		return
	}
	if err := eventbus.PublishEvent(ctx, h.publisher, event); err != nil {
		h.logger.WarnContext(ctx, "failed to publish match event",
			"task_id", ranking.Task.ID,
			observability.ErrorKey, err,
		)
		return
	}
	h.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", RoutingKeyMatchRecommended))
}
