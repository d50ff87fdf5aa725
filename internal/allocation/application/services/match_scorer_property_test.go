package services

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

func genTask(rt *rapid.T) *domain.Task {
	priority := rapid.SampledFrom([]domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}).Draw(rt, "priority")
	task := &domain.Task{
		ID:          1,
		Priority:    priority,
		Status:      domain.StatusTodo,
		Description: words(rapid.IntRange(0, 80).Draw(rt, "words")),
	}
	if rapid.Bool().Draw(rt, "hasHint") {
		task.CognitiveLoad = intPtr(rapid.IntRange(0, 100).Draw(rt, "hint"))
	}
	required := rapid.SliceOfNDistinct(rapid.Int64Range(1, 8), 0, 4, rapid.ID[int64]).Draw(rt, "required")
	task.RequiredSkills = required
	return task
}

func genSignals(rt *rapid.T) MatchSignals {
	signals := MatchSignals{
		Task:        genTask(rt),
		UserID:      1,
		ActiveTasks: rapid.IntRange(0, 15).Draw(rt, "active"),
	}
	for _, id := range rapid.SliceOfNDistinct(rapid.Int64Range(1, 8), 0, 6, rapid.ID[int64]).Draw(rt, "held") {
		signals.Skills = append(signals.Skills, domain.UserSkill{
			UserID:      1,
			SkillID:     id,
			Proficiency: rapid.IntRange(domain.MinProficiency, domain.MaxProficiency).Draw(rt, "proficiency"),
		})
	}
	switch rapid.IntRange(0, 3).Draw(rt, "availability") {
	case 0:
		signals.Availability = available()
	case 1:
		signals.Availability = unavailable()
	case 2:
		signals.Availability = &domain.Availability{Status: domain.AvailabilityLimited}
	}
	if rapid.Bool().Draw(rt, "hasAnalytics") {
		signals.Analytics = []domain.UserAnalytic{{
			UserID: 1,
			Metric: domain.MetricPerformance,
			Value:  rapid.Float64Range(0, 100).Draw(rt, "performance"),
		}}
	}
	return signals
}

func TestEvaluate_ScoreAlwaysWithinBounds(t *testing.T) {
	scorer := newTestScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		b := scorer.Evaluate(genSignals(rt))
		if b.Score < 0 || b.Score > 100 || math.IsNaN(b.Score) {
			rt.Fatalf("score %v out of [0, 100]", b.Score)
		}
		if b.Score != ClampScore(b.Raw) {
			rt.Fatalf("score %v is not raw %v clamped", b.Score, b.Raw)
		}
	})
}

func TestEvaluate_AvailabilityShiftsRawBySixty(t *testing.T) {
	scorer := newTestScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		signals := genSignals(rt)
		signals.Availability = available()
		up := scorer.Evaluate(signals)
		signals.Availability = unavailable()
		down := scorer.Evaluate(signals)

		if math.Abs(up.Raw-down.Raw-60) > 1e-9 {
			rt.Fatalf("availability delta %v, want 60", up.Raw-down.Raw)
		}
	})
}

func TestEvaluate_MoreActiveTasksNeverScoreHigher(t *testing.T) {
	scorer := newTestScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		signals := genSignals(rt)
		base := scorer.Evaluate(signals)
		signals.ActiveTasks += rapid.IntRange(1, 10).Draw(rt, "extra")
		busier := scorer.Evaluate(signals)

		if busier.Score > base.Score {
			rt.Fatalf("score rose from %v to %v with more active tasks", base.Score, busier.Score)
		}
	})
}

func TestEvaluate_HigherProficiencyNeverScoresLower(t *testing.T) {
	scorer := newTestScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		signals := genSignals(rt)
		if len(signals.Skills) == 0 {
			return
		}
		base := scorer.Evaluate(signals)

		raised := make([]domain.UserSkill, len(signals.Skills))
		copy(raised, signals.Skills)
		i := rapid.IntRange(0, len(raised)-1).Draw(rt, "index")
		raised[i].Proficiency = min(domain.MaxProficiency, raised[i].Proficiency+1)
		signals.Skills = raised

		better := scorer.Evaluate(signals)
		if better.SkillMatch < base.SkillMatch {
			rt.Fatalf("skill match fell from %v to %v after raising proficiency", base.SkillMatch, better.SkillMatch)
		}
		if better.Score < base.Score {
			rt.Fatalf("score fell from %v to %v after raising proficiency", base.Score, better.Score)
		}
	})
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	scorer := newTestScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		signals := genSignals(rt)
		if a, b := scorer.Evaluate(signals), scorer.Evaluate(signals); a != b {
			rt.Fatalf("evaluations differ: %+v vs %+v", a, b)
		}
	})
}
