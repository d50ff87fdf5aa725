// Package application contains the application layer for the allocation bounded context.
package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// Service provides a facade over all allocation handlers.
type Service struct {
	scoreMatchHandler              *queries.ScoreMatchHandler
	rankCandidatesHandler          *queries.RankCandidatesHandler
	getTeamInsightsHandler         *queries.GetTeamInsightsHandler
	getNBMStatusHandler            *queries.GetNBMStatusHandler
	getDashboardStatsHandler       *queries.GetDashboardStatsHandler
	getTeamMembersHandler          *queries.GetTeamMembersHandler
	getSkillRecommendationsHandler *queries.GetSkillRecommendationsHandler
}

// NewService creates a new allocation service.
func NewService(
	dataSource domain.DataSource,
	scorer *services.MatchScorer,
	aggregator *services.InsightAggregator,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
) *Service {
	return &Service{
		scoreMatchHandler:              queries.NewScoreMatchHandler(dataSource, scorer, logger, metrics),
		rankCandidatesHandler:          queries.NewRankCandidatesHandler(scorer, publisher, logger, metrics),
		getTeamInsightsHandler:         queries.NewGetTeamInsightsHandler(aggregator, logger, metrics),
		getNBMStatusHandler:            queries.NewGetNBMStatusHandler(aggregator),
		getDashboardStatsHandler:       queries.NewGetDashboardStatsHandler(aggregator, logger, metrics),
		getTeamMembersHandler:          queries.NewGetTeamMembersHandler(aggregator, logger, metrics),
		getSkillRecommendationsHandler: queries.NewGetSkillRecommendationsHandler(aggregator, logger, metrics),
	}
}

// ScoreMatch scores one user against one task.
func (s *Service) ScoreMatch(ctx context.Context, query queries.ScoreMatchQuery) (*queries.ScoreMatchResult, error) {
	return s.scoreMatchHandler.Handle(ctx, query)
}

// RankCandidates ranks every user for a task.
func (s *Service) RankCandidates(ctx context.Context, query queries.RankCandidatesQuery) (*services.Ranking, error) {
	return s.rankCandidatesHandler.Handle(ctx, query)
}

// GetTeamInsights returns cognitive load, sentiment and recommendations.
func (s *Service) GetTeamInsights(ctx context.Context, query queries.GetTeamInsightsQuery) (*services.TeamInsights, error) {
	return s.getTeamInsightsHandler.Handle(ctx, query)
}

// GetNBMStatus returns the synthesized matching subsystem status.
func (s *Service) GetNBMStatus(ctx context.Context, query queries.GetNBMStatusQuery) (*services.NBMStatus, error) {
	return s.getNBMStatusHandler.Handle(ctx, query)
}

// GetDashboardStats returns the headline team numbers.
func (s *Service) GetDashboardStats(ctx context.Context, query queries.GetDashboardStatsQuery) (*services.DashboardStats, error) {
	return s.getDashboardStatsHandler.Handle(ctx, query)
}

// GetTeamMembers returns the enriched team roster.
func (s *Service) GetTeamMembers(ctx context.Context, query queries.GetTeamMembersQuery) (*services.TeamMembersResult, error) {
	return s.getTeamMembersHandler.Handle(ctx, query)
}

// GetSkillRecommendations returns skills the user could pick up next.
func (s *Service) GetSkillRecommendations(ctx context.Context, query queries.GetSkillRecommendationsQuery) ([]services.SkillRecommendation, error) {
	return s.getSkillRecommendationsHandler.Handle(ctx, query)
}
