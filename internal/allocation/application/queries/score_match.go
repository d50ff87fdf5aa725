package queries

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// ScoreMatchQuery asks how well one user fits one task.
type ScoreMatchQuery struct {
	TaskID int64
	UserID int64
}

// ScoreMatchResult contains the scored pair.
type ScoreMatchResult struct {
	Task      *domain.Task
	User      *domain.User
	Breakdown *services.ScoreBreakdown
}

// ScoreMatchHandler handles score match queries.
type ScoreMatchHandler struct {
	dataSource domain.DataSource
	scorer     Scorer
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewScoreMatchHandler creates a new score match handler.
func NewScoreMatchHandler(dataSource domain.DataSource, scorer Scorer, logger *slog.Logger, metrics observability.Metrics) *ScoreMatchHandler {
	return &ScoreMatchHandler{
		dataSource: dataSource,
		scorer:     scorer,
		logger:     observability.LogOperation(orDefault(logger), "score_match"),
		metrics:    orNoop(metrics),
	}
}

// Handle executes the score match query.
func (h *ScoreMatchHandler) Handle(ctx context.Context, query ScoreMatchQuery) (*ScoreMatchResult, error) {
	return observability.Observe(ctx, h.logger, h.metrics, "score_match", func() (*ScoreMatchResult, error) {
		task, err := h.dataSource.GetTask(ctx, query.TaskID)
		if err != nil {
			return nil, fmt.Errorf("failed to get task %d: %w", query.TaskID, err)
		}
		user, err := h.dataSource.GetUser(ctx, query.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user %d: %w", query.UserID, err)
		}

		breakdown, err := h.scorer.Explain(ctx, task, user.ID)
		if err != nil {
			return nil, err
		}
		return &ScoreMatchResult{Task: task, User: user, Breakdown: breakdown}, nil
	})
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func orNoop(metrics observability.Metrics) observability.Metrics {
	if metrics == nil {
		return observability.NoopMetrics{}
	}
	return metrics
}
