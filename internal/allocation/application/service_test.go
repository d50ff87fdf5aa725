package application_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/subscribers"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/infrastructure/persistence"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func teamFixture() *persistence.Fixture {
	return &persistence.Fixture{
		Skills: []persistence.FixtureSkill{
			{ID: 1, Name: "Frontend Development", Category: "development"},
			{ID: 2, Name: "Backend Development", Category: "development"},
			{ID: 3, Name: "UI/UX Design", Category: "design"},
		},
		Users: []persistence.FixtureUser{
			{
				ID: 1, Name: "Ada", Email: "ada@example.com", Availability: "AVAILABLE",
				Skills: []persistence.FixtureUserSkill{{Skill: 1, Proficiency: 4}, {Skill: 3, Proficiency: 2}},
			},
			{
				ID: 2, Name: "Grace", Email: "grace@example.com", Availability: "LIMITED",
				Skills: []persistence.FixtureUserSkill{{Skill: 2, Proficiency: 5}},
			},
			{ID: 3, Name: "Linus", Email: "linus@example.com"},
		},
		Tasks: []persistence.FixtureTask{
			{ID: 10, Title: "Write release notes", Priority: "LOW", Status: "TODO", CreatorID: 1},
			{
				ID: 11, Title: "Build settings page", Priority: "HIGH", Status: "IN_PROGRESS",
				RequiredSkills: []int64{1, 3}, CognitiveLoad: intPtr(70), CreatorID: 2, AssigneeID: int64Ptr(1),
			},
			{ID: 12, Title: "Migrate billing API", Priority: "MEDIUM", Status: "COMPLETED", RequiredSkills: []int64{2}, CreatorID: 1, AssigneeID: int64Ptr(1)},
		},
	}
}

type harness struct {
	service    *application.Service
	subscriber *subscribers.RecommendationSubscriber
	metrics    *observability.InMemoryMetrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ds, err := persistence.NewMemoryDataSource(teamFixture())
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	metrics := observability.NewInMemoryMetrics()

	bus := eventbus.NewInProcessEventBus(logger)
	subscriber := subscribers.NewRecommendationSubscriber(logger)
	bus.RegisterConsumer(subscriber)

	scorer := services.NewMatchScorer(ds, services.DefaultMatchScorerConfig(), logger, metrics)
	aggregator := services.NewInsightAggregator(ds, services.NewSeededSource(7), logger)

	return &harness{
		service:    application.NewService(ds, scorer, aggregator, bus, logger, metrics),
		subscriber: subscriber,
		metrics:    metrics,
	}
}

func TestService_ScoreMatch(t *testing.T) {
	h := newHarness(t)

	result, err := h.service.ScoreMatch(context.Background(), queries.ScoreMatchQuery{TaskID: 11, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Ada", result.User.Name)
	assert.Equal(t, 100.0, result.Breakdown.Score)

	_, err = h.service.ScoreMatch(context.Background(), queries.ScoreMatchQuery{TaskID: 404, UserID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_RankCandidatesPublishesRecommendation(t *testing.T) {
	h := newHarness(t)
	ctx := observability.WithCorrelationID(context.Background(), "corr-1")

	ranking, err := h.service.RankCandidates(ctx, queries.RankCandidatesQuery{TaskID: 11})
	require.NoError(t, err)
	require.Len(t, ranking.Candidates, 3)

	// Grace and Linus tie; listing order breaks the tie.
	ids := []int64{ranking.Candidates[0].UserID, ranking.Candidates[1].UserID, ranking.Candidates[2].UserID}
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.Equal(t, ranking.Candidates[1].Score, ranking.Candidates[2].Score)

	rec, ok := h.subscriber.Latest(11)
	require.True(t, ok)
	assert.Equal(t, queries.MatchRecommended{TaskID: 11, UserID: 1, Score: 100, Candidates: 3}, rec)
	assert.Equal(t, int64(1), h.metrics.GetCounter(observability.MetricEventsPublished,
		observability.T("routing_key", queries.RoutingKeyMatchRecommended)))
}

func TestService_DashboardStats(t *testing.T) {
	h := newHarness(t)

	stats, err := h.service.GetDashboardStats(context.Background(), queries.GetDashboardStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 2, stats.ActiveTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 3, stats.TeamSize)
	assert.Equal(t, 33, stats.TeamAvailability)
	assert.Equal(t, 33, stats.CompletionRate)
}

func TestService_TeamViews(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	insights, err := h.service.GetTeamInsights(ctx, queries.GetTeamInsightsQuery{})
	require.NoError(t, err)
	assert.Len(t, insights.CognitiveLoad.Categories, 5)
	assert.LessOrEqual(t, len(insights.Recommendations), 3)

	nbm, err := h.service.GetNBMStatus(ctx, queries.GetNBMStatusQuery{})
	require.NoError(t, err)
	assert.Len(t, nbm.Components, 4)

	members, err := h.service.GetTeamMembers(ctx, queries.GetTeamMembersQuery{})
	require.NoError(t, err)
	require.Len(t, members.Members, 3)
	assert.Empty(t, members.Failed())
	assert.Equal(t, "Frontend Developer", members.Members[0].Role)
	assert.Equal(t, "Backend Developer", members.Members[1].Role)
	assert.Equal(t, "Team Member", members.Members[2].Role)

	recs, err := h.service.GetSkillRecommendations(ctx, queries.GetSkillRecommendationsQuery{UserID: 3})
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = h.service.GetSkillRecommendations(ctx, queries.GetSkillRecommendationsQuery{UserID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
