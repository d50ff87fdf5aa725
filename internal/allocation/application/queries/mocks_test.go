package queries

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) Explain(ctx context.Context, task *domain.Task, userID int64) (*services.ScoreBreakdown, error) {
	args := m.Called(ctx, task, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ScoreBreakdown), args.Error(1)
}

func (m *mockScorer) Rank(ctx context.Context, taskID int64) (*services.Ranking, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Ranking), args.Error(1)
}

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) GenerateTeamInsights(ctx context.Context) (*services.TeamInsights, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TeamInsights), args.Error(1)
}

func (m *mockAggregator) GenerateNBMStatus() *services.NBMStatus {
	args := m.Called()
	return args.Get(0).(*services.NBMStatus)
}

func (m *mockAggregator) GenerateDashboardStats(ctx context.Context) (*services.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardStats), args.Error(1)
}

func (m *mockAggregator) GenerateTeamMembers(ctx context.Context) (*services.TeamMembersResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TeamMembersResult), args.Error(1)
}

func (m *mockAggregator) GenerateSkillRecommendations(ctx context.Context, userID int64) ([]services.SkillRecommendation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SkillRecommendation), args.Error(1)
}

type mockDataSource struct {
	mock.Mock
}

func (m *mockDataSource) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockDataSource) GetTasks(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *mockDataSource) GetTasksByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *mockDataSource) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockDataSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockDataSource) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func (m *mockDataSource) GetSkills(ctx context.Context) ([]domain.Skill, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Skill), args.Error(1)
}

func (m *mockDataSource) GetUserSkills(ctx context.Context, userID int64) ([]domain.UserSkill, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UserSkill), args.Error(1)
}

func (m *mockDataSource) GetUserAvailability(ctx context.Context, userID int64) (*domain.Availability, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *mockDataSource) GetUserAnalytics(ctx context.Context, userID int64) ([]domain.UserAnalytic, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UserAnalytic), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}
