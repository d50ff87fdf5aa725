package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

func TestDeriveRole(t *testing.T) {
	tests := []struct {
		name     string
		skills   []string
		expected string
	}{
		{"exact match", []string{"UI/UX Design"}, "UX Designer"},
		{"first mapped skill wins", []string{"Cooking", "Quality Assurance", "DevOps"}, "QA Specialist"},
		{"exact match beats earlier fallback", []string{"Motion design", "Backend Development"}, "Backend Developer"},
		{"design fallback", []string{"Motion Design"}, "Designer"},
		{"develop fallback", []string{"Game development"}, "Developer"},
		{"test fallback", []string{"Load testing"}, "QA Specialist"},
		{"no match", []string{"Cooking"}, defaultRole},
		{"no skills", nil, defaultRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveRole(tt.skills))
		})
	}
}

func teamFixture() *fakeDataSource {
	ds := newFakeDataSource()
	ds.skills = []domain.Skill{
		{ID: 1, Name: "UI/UX Design", Category: "design"},
		{ID: 2, Name: "Frontend Development", Category: "development"},
		{ID: 3, Name: "Test automation", Category: "testing"},
	}
	ds.addUser(domain.User{ID: 1, Name: "Ada"}, domain.AvailabilityAvailable, 1,
		domain.UserSkill{SkillID: 1, Proficiency: 3},
		domain.UserSkill{SkillID: 2, Proficiency: 5},
	)
	ds.addUser(domain.User{ID: 2, Name: "Grace"}, domain.AvailabilityLimited, 0,
		domain.UserSkill{SkillID: 1, Proficiency: 4},
	)
	ds.addUser(domain.User{ID: 3, Name: "Linus"}, "", 7,
		domain.UserSkill{SkillID: 3, Proficiency: 2},
	)
	return ds
}

func TestGenerateTeamMembers(t *testing.T) {
	ds := teamFixture()
	ds.skillErrs[2] = errors.New("connection refused")
	// Ada: insight pick, workload draw. Linus: workload draw only.
	agg := NewInsightAggregator(ds, script(0, 0.5, drawFor(40, 15, 30)), nil)

	result, err := agg.GenerateTeamMembers(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Members, 2)
	require.Len(t, result.Results, 3)

	ada := result.Members[0]
	assert.Equal(t, "Frontend Developer", ada.Role)
	assert.Equal(t, []string{"Frontend Development", "UI/UX Design"}, ada.Skills)
	assert.Equal(t, 1, ada.ActiveTasks)
	assert.Equal(t, domain.AvailabilityAvailable, ada.Availability)
	assert.Equal(t, positiveInsights[0], ada.Insight)
	assert.Equal(t, 55, ada.Workload)

	linus := result.Members[1]
	assert.Equal(t, "QA Specialist", linus.Role)
	assert.Equal(t, overloadInsight, linus.Insight)
	assert.Empty(t, linus.Availability)
	assert.Equal(t, 100, linus.Workload)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int64(2), failed[0].UserID)
	assert.Nil(t, failed[0].Member)
}

func TestGenerateTeamMembers_CrossTrainingInsight(t *testing.T) {
	ds := newFakeDataSource()
	ds.skills = []domain.Skill{{ID: 1, Name: "DevOps"}}
	ds.addUser(domain.User{ID: 1}, domain.AvailabilityAvailable, 0, domain.UserSkill{SkillID: 1, Proficiency: 4})
	agg := NewInsightAggregator(ds, script(0.5), nil)

	result, err := agg.GenerateTeamMembers(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Members, 1)
	assert.Equal(t, "DevOps Engineer", result.Members[0].Role)
	assert.Equal(t, crossTrainingInsight, result.Members[0].Insight)
	assert.Equal(t, 40, result.Members[0].Workload)
}

func TestGenerateTeamMembers_UnknownSkillSkipsMember(t *testing.T) {
	ds := newFakeDataSource()
	ds.addUser(domain.User{ID: 1}, domain.AvailabilityAvailable, 0, domain.UserSkill{SkillID: 99, Proficiency: 4})
	var logs bytes.Buffer
	agg := NewInsightAggregator(ds, script(0.5), slog.New(slog.NewJSONHandler(&logs, nil)))

	result, err := agg.GenerateTeamMembers(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Members)
	require.Len(t, result.Failed(), 1)
	assert.ErrorIs(t, result.Failed()[0].Err, domain.ErrNotFound)

	var record map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &record))
	assert.Equal(t, "skipping team member", record["msg"])
	assert.Contains(t, record[observability.ErrorKey], "skill 99")
}

func TestGenerateTeamMembers_ListUsersError(t *testing.T) {
	ds := newFakeDataSource()
	ds.usersErr = errors.New("boom")
	agg := NewInsightAggregator(ds, script(0.5), nil)

	_, err := agg.GenerateTeamMembers(context.Background())

	assert.ErrorContains(t, err, "failed to list users")
}
