// Package queries contains query handlers for the allocation bounded context.
package queries

import (
	"context"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

// Scorer is the part of services.MatchScorer the handlers depend on.
type Scorer interface {
	Explain(ctx context.Context, task *domain.Task, userID int64) (*services.ScoreBreakdown, error)
	Rank(ctx context.Context, taskID int64) (*services.Ranking, error)
}

// Aggregator is the part of services.InsightAggregator the handlers depend on.
type Aggregator interface {
	GenerateTeamInsights(ctx context.Context) (*services.TeamInsights, error)
	GenerateNBMStatus() *services.NBMStatus
	GenerateDashboardStats(ctx context.Context) (*services.DashboardStats, error)
	GenerateTeamMembers(ctx context.Context) (*services.TeamMembersResult, error)
	GenerateSkillRecommendations(ctx context.Context, userID int64) ([]services.SkillRecommendation, error)
}
