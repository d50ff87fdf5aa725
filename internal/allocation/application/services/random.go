package services

import (
	"math"
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniformly distributed values in [0, 1).
// Insight synthesis draws from it so tests can script exact sequences.
type RandomSource interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NewSeededSource returns a reproducible source safe for concurrent use.
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }

// SystemSource returns a source backed by the runtime's global generator.
func SystemSource() RandomSource { return systemSource{} }

// uniform maps one draw onto [-spread, +spread).
func uniform(rng RandomSource, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}

// roundHalfUp rounds halves toward +Inf, so -2.5 becomes -2.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// BoundedRandomMetric returns baseline perturbed by a symmetric uniform
// offset of at most variance, rounded to an integer. The result is not
// clamped; callers bound it where their output requires.
func BoundedRandomMetric(rng RandomSource, baseline, variance float64) int {
	return roundHalfUp(baseline + uniform(rng, variance))
}

// BoundedRandomTrend returns a rounded uniform value in [-spread, +spread].
func BoundedRandomTrend(rng RandomSource, spread float64) int {
	return roundHalfUp(uniform(rng, spread))
}

// ClampScore bounds x to [0, 100].
func ClampScore(x float64) float64 {
	return math.Max(0, math.Min(100, x))
}

func clampPercent(x int) int {
	return max(0, min(100, x))
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
