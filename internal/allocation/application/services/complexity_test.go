package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		name     string
		task     domain.Task
		expected float64
	}{
		{"medium priority, mid-length", domain.Task{Priority: domain.PriorityMedium, Description: words(20)}, 0.5},
		{"high priority, long", domain.Task{Priority: domain.PriorityHigh, Description: words(60)}, 0.8},
		{"low priority, short", domain.Task{Priority: domain.PriorityLow, Description: words(3)}, 0.3},
		{"empty description counts as short", domain.Task{Priority: domain.PriorityMedium}, 0.4},
		{"exactly 50 words is not long", domain.Task{Priority: domain.PriorityMedium, Description: words(50)}, 0.5},
		{"exactly 10 words is not short", domain.Task{Priority: domain.PriorityMedium, Description: words(10)}, 0.5},
		{"hint blends half and half", domain.Task{Priority: domain.PriorityHigh, Description: words(60), CognitiveLoad: intPtr(80)}, 0.8},
		{"zero hint halves the estimate", domain.Task{Priority: domain.PriorityMedium, Description: words(20), CognitiveLoad: intPtr(0)}, 0.25},
		{"blend landing on 0.7", domain.Task{Priority: domain.PriorityMedium, Description: words(20), CognitiveLoad: intPtr(90)}, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateComplexity(&tt.task), 1e-12)
		})
	}
}

func TestCognitiveFit(t *testing.T) {
	hard := &domain.Task{Priority: domain.PriorityHigh, Description: words(60)}
	simple := &domain.Task{Priority: domain.PriorityLow, Description: words(3), CognitiveLoad: intPtr(0)}
	perf := func(v float64) []domain.UserAnalytic {
		return []domain.UserAnalytic{{Metric: domain.MetricPerformance, Value: v}}
	}

	t.Run("no analytics is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, CognitiveFit(hard, nil))
	})

	t.Run("analytics without a performance signal is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, CognitiveFit(hard, []domain.UserAnalytic{{Metric: "MOOD", Value: 95}}))
	})

	t.Run("complex task tracks performance", func(t *testing.T) {
		assert.InDelta(t, 0.9, CognitiveFit(hard, perf(90)), 1e-9)
	})

	t.Run("simple task favors lower performance", func(t *testing.T) {
		assert.InDelta(t, 0.8, CognitiveFit(simple, perf(40)), 1e-9)
	})

	t.Run("focus counts as a performance signal", func(t *testing.T) {
		got := CognitiveFit(hard, []domain.UserAnalytic{{Metric: domain.MetricFocus, Value: 70}})
		assert.InDelta(t, 0.7, got, 1e-9)
	})

	t.Run("out of range values are clamped", func(t *testing.T) {
		assert.Equal(t, 1.0, CognitiveFit(hard, perf(140)))
	})
}

func TestCognitiveFit_BoundariesUseMediumBranch(t *testing.T) {
	analytics := []domain.UserAnalytic{{Metric: domain.MetricPerformance, Value: 50}}
	medium := 0.5 + 0.5*0.3

	tests := []struct {
		name string
		task domain.Task
	}{
		{"complexity exactly 0.3", domain.Task{Priority: domain.PriorityLow, Description: words(3)}},
		{"complexity exactly 0.7 without hint", domain.Task{Priority: domain.PriorityHigh, Description: words(20)}},
		{"complexity exactly 0.7 with hint", domain.Task{Priority: domain.PriorityMedium, Description: words(20), CognitiveLoad: intPtr(90)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, medium, CognitiveFit(&tt.task, analytics), 1e-12)
		})
	}
}
