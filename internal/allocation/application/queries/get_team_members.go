package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// GetTeamMembersQuery asks for the enriched team roster.
type GetTeamMembersQuery struct{}

// GetTeamMembersHandler handles team member queries.
type GetTeamMembersHandler struct {
	aggregator Aggregator
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewGetTeamMembersHandler creates a new team members handler.
func NewGetTeamMembersHandler(aggregator Aggregator, logger *slog.Logger, metrics observability.Metrics) *GetTeamMembersHandler {
	return &GetTeamMembersHandler{
		aggregator: aggregator,
		logger:     observability.LogOperation(orDefault(logger), "get_team_members"),
		metrics:    orNoop(metrics),
	}
}

// Handle executes the team members query. Skipped members are counted in
// the members-skipped metric.
func (h *GetTeamMembersHandler) Handle(ctx context.Context, _ GetTeamMembersQuery) (*services.TeamMembersResult, error) {
	result, err := observability.Observe(ctx, h.logger, h.metrics, "get_team_members", func() (*services.TeamMembersResult, error) {
		return h.aggregator.GenerateTeamMembers(ctx)
	})
	if err != nil {
		return nil, err
	}
	if failed := len(result.Failed()); failed > 0 {
		h.metrics.Counter(observability.MetricMembersSkipped, int64(failed))
	}
	return result, nil
}

// GetSkillRecommendationsQuery asks for skills a user could pick up next.
type GetSkillRecommendationsQuery struct {
	UserID int64
}

// GetSkillRecommendationsHandler handles skill recommendation queries.
type GetSkillRecommendationsHandler struct {
	aggregator Aggregator
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewGetSkillRecommendationsHandler creates a new skill recommendations handler.
func NewGetSkillRecommendationsHandler(aggregator Aggregator, logger *slog.Logger, metrics observability.Metrics) *GetSkillRecommendationsHandler {
	return &GetSkillRecommendationsHandler{
		aggregator: aggregator,
		logger:     observability.LogOperation(orDefault(logger), "get_skill_recommendations"),
		metrics:    orNoop(metrics),
	}
}

// Handle executes the skill recommendations query.
func (h *GetSkillRecommendationsHandler) Handle(ctx context.Context, query GetSkillRecommendationsQuery) ([]services.SkillRecommendation, error) {
	return observability.Observe(ctx, h.logger, h.metrics, "get_skill_recommendations", func() ([]services.SkillRecommendation, error) {
		return h.aggregator.GenerateSkillRecommendations(ctx, query.UserID)
	})
}
