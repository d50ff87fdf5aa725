package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

const (
	maxSkillRecommendations = 3
	demandConfidenceBoost   = 10
)

// SkillRecommendation suggests a catalog skill the user does not hold yet.
type SkillRecommendation struct {
	Skill      domain.Skill
	Confidence int // 0-100
	Demand     int // active tasks requiring the skill
	Reason     string
}

// GenerateSkillRecommendations suggests up to three skills for the user,
// favoring skills that open tasks require.
//
// Candidates are the catalog skills the user lacks, in catalog order; each
// consumes one draw for its base confidence.
func (a *InsightAggregator) GenerateSkillRecommendations(ctx context.Context, userID int64) ([]SkillRecommendation, error) {
	if _, err := a.dataSource.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	held, err := a.dataSource.GetUserSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills of user %d: %w", userID, err)
	}
	catalog, err := a.dataSource.GetSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill catalog: %w", err)
	}
	tasks, err := a.dataSource.GetTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	heldIDs := make(map[int64]struct{}, len(held))
	for _, us := range held {
		heldIDs[us.SkillID] = struct{}{}
	}
	heldCategories := make(map[string]struct{})
	for _, s := range catalog {
		if _, ok := heldIDs[s.ID]; ok && s.Category != "" {
			heldCategories[s.Category] = struct{}{}
		}
	}

	var recs []SkillRecommendation
	for _, skill := range catalog {
		if _, ok := heldIDs[skill.ID]; ok {
			continue
		}
		demand := skillDemand(tasks, skill.ID)
		_, related := heldCategories[skill.Category]
		recs = append(recs, SkillRecommendation{
			Skill:      skill,
			Demand:     demand,
			Confidence: clampPercent(BoundedRandomMetric(a.rng, 60, 15) + demandConfidenceBoost*demand),
			Reason:     recommendationReason(skill, demand, related),
		})
	}

	slices.SortStableFunc(recs, func(x, y SkillRecommendation) int {
		return cmp.Compare(y.Confidence, x.Confidence)
	})
	if len(recs) > maxSkillRecommendations {
		recs = recs[:maxSkillRecommendations]
	}
	return recs, nil
}

func skillDemand(tasks []domain.Task, skillID int64) int {
	n := 0
	for i := range tasks {
		if tasks[i].IsActive() && tasks[i].RequiresSkill(skillID) {
			n++
		}
	}
	return n
}

func recommendationReason(skill domain.Skill, demand int, related bool) string {
	switch {
	case demand == 1:
		return "Required by 1 open task"
	case demand > 1:
		return fmt.Sprintf("Required by %d open tasks", demand)
	case related:
		return fmt.Sprintf("Complements your %s skills", skill.Category)
	default:
		return "Broadens your skill set"
	}
}
