package services

import (
	"strings"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

const (
	complexTaskThreshold = 0.7
	simpleTaskThreshold  = 0.3
	neutralCognitiveFit  = 0.5

	longDescriptionWords  = 50
	shortDescriptionWords = 10
)

// EstimateComplexity estimates task complexity in [0, 1] from priority,
// description length and the optional cognitive-load hint.
//
// The heuristic adjustments are all multiples of 0.1, so they are summed in
// tenths and divided once; this keeps 0.3 and 0.7 exact for the branch
// comparisons in CognitiveFit.
func EstimateComplexity(task *domain.Task) float64 {
	tenths := 5
	switch task.Priority {
	case domain.PriorityHigh:
		tenths += 2
	case domain.PriorityLow:
		tenths--
	}

	words := len(strings.Fields(task.Description))
	switch {
	case words > longDescriptionWords:
		tenths++
	case words < shortDescriptionWords:
		tenths--
	}

	if task.CognitiveLoad != nil {
		// complexity*0.5 + hint/100*0.5
		return clamp01(float64(tenths*10+*task.CognitiveLoad) / 200)
	}
	return clamp01(float64(tenths) / 10)
}

// CognitiveFit scores in [0, 1] how well the user's latest PERFORMANCE or
// FOCUS reading suits the task's complexity. Users without readings are
// neutral.
func CognitiveFit(task *domain.Task, analytics []domain.UserAnalytic) float64 {
	if len(analytics) == 0 {
		return neutralCognitiveFit
	}
	latest, ok := domain.LatestPerformanceSignal(analytics)
	if !ok {
		return neutralCognitiveFit
	}
	return cognitiveFitFor(EstimateComplexity(task), clamp01(latest.Value/100))
}

func cognitiveFitFor(complexity, performance float64) float64 {
	switch {
	case complexity > complexTaskThreshold:
		return performance
	case complexity < simpleTaskThreshold:
		return 1 - performance*0.5
	default:
		return 0.5 + performance*0.3
	}
}
