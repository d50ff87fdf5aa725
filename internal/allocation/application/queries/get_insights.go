package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// GetTeamInsightsQuery asks for team cognitive load, sentiment and recommendations.
type GetTeamInsightsQuery struct{}

// GetTeamInsightsHandler handles team insight queries.
type GetTeamInsightsHandler struct {
	aggregator Aggregator
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewGetTeamInsightsHandler creates a new team insights handler.
func NewGetTeamInsightsHandler(aggregator Aggregator, logger *slog.Logger, metrics observability.Metrics) *GetTeamInsightsHandler {
	return &GetTeamInsightsHandler{
		aggregator: aggregator,
		logger:     observability.LogOperation(orDefault(logger), "get_team_insights"),
		metrics:    orNoop(metrics),
	}
}

// Handle executes the team insights query.
func (h *GetTeamInsightsHandler) Handle(ctx context.Context, _ GetTeamInsightsQuery) (*services.TeamInsights, error) {
	return observability.Observe(ctx, h.logger, h.metrics, "get_team_insights", func() (*services.TeamInsights, error) {
		return h.aggregator.GenerateTeamInsights(ctx)
	})
}

// GetNBMStatusQuery asks for the synthesized matching subsystem status.
type GetNBMStatusQuery struct{}

// GetNBMStatusHandler handles NBM status queries.
type GetNBMStatusHandler struct {
	aggregator Aggregator
}

// NewGetNBMStatusHandler creates a new NBM status handler.
func NewGetNBMStatusHandler(aggregator Aggregator) *GetNBMStatusHandler {
	return &GetNBMStatusHandler{aggregator: aggregator}
}

// Handle executes the NBM status query.
func (h *GetNBMStatusHandler) Handle(_ context.Context, _ GetNBMStatusQuery) (*services.NBMStatus, error) {
	return h.aggregator.GenerateNBMStatus(), nil
}

// GetDashboardStatsQuery asks for the headline team numbers.
type GetDashboardStatsQuery struct{}

// GetDashboardStatsHandler handles dashboard stats queries.
type GetDashboardStatsHandler struct {
	aggregator Aggregator
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewGetDashboardStatsHandler creates a new dashboard stats handler.
func NewGetDashboardStatsHandler(aggregator Aggregator, logger *slog.Logger, metrics observability.Metrics) *GetDashboardStatsHandler {
	return &GetDashboardStatsHandler{
		aggregator: aggregator,
		logger:     observability.LogOperation(orDefault(logger), "get_dashboard_stats"),
		metrics:    orNoop(metrics),
	}
}

// Handle executes the dashboard stats query.
func (h *GetDashboardStatsHandler) Handle(ctx context.Context, _ GetDashboardStatsQuery) (*services.DashboardStats, error) {
	return observability.Observe(ctx, h.logger, h.metrics, "get_dashboard_stats", func() (*services.DashboardStats, error) {
		return h.aggregator.GenerateDashboardStats(ctx)
	})
}
