package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
	"golang.org/x/sync/errgroup"
)

// Score composition. Every candidate starts at baseScore and receives four
// additive adjustments before the result is clamped to [0, 100].
const (
	baseScore = 50.0

	skillWeight            = 30.0
	skillAgnosticPoints    = 15.0
	skillCoverageWeight    = 0.6
	skillProficiencyWeight = 0.4

	availablePoints   = 20
	unavailablePoints = -40

	cognitiveWeight = 20.0
)

// MatchScorerConfig tunes the ranking fan-out.
type MatchScorerConfig struct {
	// Concurrency caps the number of candidates scored in parallel.
	Concurrency int
}

// DefaultMatchScorerConfig returns a production-friendly configuration.
func DefaultMatchScorerConfig() MatchScorerConfig {
	return MatchScorerConfig{Concurrency: 8}
}

// MatchSignals contains everything that influences one task/user score.
type MatchSignals struct {
	Task         *domain.Task
	UserID       int64
	Skills       []domain.UserSkill
	Availability *domain.Availability
	ActiveTasks  int
	Analytics    []domain.UserAnalytic
}

// ScoreBreakdown explains how a match score was reached.
type ScoreBreakdown struct {
	TaskID int64
	UserID int64

	SkillMatch   float64 // 0..1, unused for skill-agnostic tasks
	Complexity   float64 // 0..1
	CognitiveFit float64 // 0..1
	ActiveTasks  int

	SkillPoints        float64
	AvailabilityPoints float64
	WorkloadPoints     float64
	CognitivePoints    float64

	// Raw is the unclamped sum; Score is Raw clamped to [0, 100].
	Raw   float64
	Score float64
}

// Explanation renders the adjustments in a compact human-readable form.
func (b ScoreBreakdown) Explanation() string {
	return fmt.Sprintf(
		"base=%.0f skill=%+.2f availability=%+.0f workload=%+.0f cognitive=%+.2f raw=%.2f",
		baseScore, b.SkillPoints, b.AvailabilityPoints, b.WorkloadPoints, b.CognitivePoints, b.Raw,
	)
}

// Match is one scored candidate.
type Match struct {
	UserID    int64
	Score     float64
	Breakdown ScoreBreakdown
}

// Exclusion records a candidate dropped from a ranking because its signals
// could not be read.
type Exclusion struct {
	UserID int64
	Err    error
}

// Ranking is the ordered result of scoring every user for a task.
type Ranking struct {
	Task       *domain.Task
	Best       Match
	Candidates []Match
	Excluded   []Exclusion
}

// MatchScorer computes task-to-user fitness scores and ranks candidates.
// Scoring is deterministic: it never consults a random source.
type MatchScorer struct {
	dataSource domain.DataSource
	config     MatchScorerConfig
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewMatchScorer creates a new scorer.
func NewMatchScorer(
	dataSource domain.DataSource,
	cfg MatchScorerConfig,
	logger *slog.Logger,
	metrics observability.Metrics,
) *MatchScorer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultMatchScorerConfig().Concurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &MatchScorer{
		dataSource: dataSource,
		config:     cfg,
		logger:     logger,
		metrics:    metrics,
	}
}

// Evaluate scores pre-fetched signals. It performs no I/O.
func (s *MatchScorer) Evaluate(signals MatchSignals) ScoreBreakdown {
	task := signals.Task
	b := ScoreBreakdown{
		TaskID:      task.ID,
		UserID:      signals.UserID,
		ActiveTasks: signals.ActiveTasks,
		Complexity:  EstimateComplexity(task),
	}

	if task.IsSkillAgnostic() {
		b.SkillPoints = skillAgnosticPoints
	} else {
		b.SkillMatch = SkillMatch(task, signals.Skills)
		b.SkillPoints = b.SkillMatch * skillWeight
	}

	if signals.Availability.IsAvailable() {
		b.AvailabilityPoints = availablePoints
	} else {
		b.AvailabilityPoints = unavailablePoints
	}

	b.WorkloadPoints = float64(workloadPoints(signals.ActiveTasks))

	b.CognitiveFit = CognitiveFit(task, signals.Analytics)
	b.CognitivePoints = b.CognitiveFit * cognitiveWeight

	b.Raw = baseScore + b.AvailabilityPoints + b.WorkloadPoints + b.SkillPoints + b.CognitivePoints
	b.Score = ClampScore(b.Raw)
	return b
}

// SkillMatch returns a [0, 1] blend of required-skill coverage and the
// normalized proficiency of the skills the user actually matched.
func SkillMatch(task *domain.Task, skills []domain.UserSkill) float64 {
	if task.IsSkillAgnostic() || len(skills) == 0 {
		return 0
	}

	required := make(map[int64]struct{}, len(task.RequiredSkills))
	for _, id := range task.RequiredSkills {
		required[id] = struct{}{}
	}

	// A skill held twice counts once, at its best proficiency.
	matched := make(map[int64]int, len(required))
	for _, us := range skills {
		if _, ok := required[us.SkillID]; !ok {
			continue
		}
		if us.Proficiency > matched[us.SkillID] {
			matched[us.SkillID] = us.Proficiency
		}
	}
	if len(matched) == 0 {
		return 0
	}

	total := 0
	for _, p := range matched {
		total += p
	}
	coverage := float64(len(matched)) / float64(len(required))
	proficiency := float64(total) / float64(len(matched)) / domain.MaxProficiency

	return clamp01(skillCoverageWeight*coverage + skillProficiencyWeight*proficiency)
}

func workloadPoints(activeTasks int) int {
	switch {
	case activeTasks < 3:
		return 20
	case activeTasks < 5:
		return 10
	case activeTasks < 8:
		return 0
	default:
		return -20
	}
}

// ScoreMatch returns the clamped 0-100 fitness of userID for task.
func (s *MatchScorer) ScoreMatch(ctx context.Context, task *domain.Task, userID int64) (float64, error) {
	b, err := s.Explain(ctx, task, userID)
	if err != nil {
		return 0, err
	}
	return b.Score, nil
}

// Explain reads the user's signals and returns the full score breakdown.
// Missing availability or analytics are defined inputs, not failures.
func (s *MatchScorer) Explain(ctx context.Context, task *domain.Task, userID int64) (*ScoreBreakdown, error) {
	signals, err := s.loadSignals(ctx, task, userID)
	if err != nil {
		return nil, err
	}
	b := s.Evaluate(signals)
	return &b, nil
}

func (s *MatchScorer) loadSignals(ctx context.Context, task *domain.Task, userID int64) (MatchSignals, error) {
	skills, err := s.dataSource.GetUserSkills(ctx, userID)
	if err != nil {
		return MatchSignals{}, fmt.Errorf("failed to get skills of user %d: %w", userID, err)
	}
	availability, err := s.dataSource.GetUserAvailability(ctx, userID)
	if err != nil {
		return MatchSignals{}, fmt.Errorf("failed to get availability of user %d: %w", userID, err)
	}
	tasks, err := s.dataSource.GetTasksByUser(ctx, userID)
	if err != nil {
		return MatchSignals{}, fmt.Errorf("failed to get tasks of user %d: %w", userID, err)
	}
	analytics, err := s.dataSource.GetUserAnalytics(ctx, userID)
	if err != nil {
		return MatchSignals{}, fmt.Errorf("failed to get analytics of user %d: %w", userID, err)
	}

	return MatchSignals{
		Task:         task,
		UserID:       userID,
		Skills:       skills,
		Availability: availability,
		ActiveTasks:  domain.CountActive(tasks),
		Analytics:    analytics,
	}, nil
}

// RankUsersForTask returns the best-scoring user for the task.
func (s *MatchScorer) RankUsersForTask(ctx context.Context, taskID int64) (*Match, error) {
	ranking, err := s.Rank(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &ranking.Best, nil
}

// Rank scores every user for the task and orders them by descending score.
// Equal scores keep the order in which the population was listed.
//
// Candidates whose signals cannot be read are excluded and logged; the
// ranking only fails with ErrNoEligibleUsers when nobody is left.
func (s *MatchScorer) Rank(ctx context.Context, taskID int64) (*Ranking, error) {
	start := time.Now()

	task, err := s.dataSource.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", taskID, err)
	}

	users, err := s.dataSource.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("task %d: %w", taskID, domain.ErrNoEligibleUsers)
	}

	type outcome struct {
		breakdown *ScoreBreakdown
		err       error
	}
	outcomes := make([]outcome, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i, user := range users {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			b, err := s.Explain(gctx, task, user.ID)
			outcomes[i] = outcome{breakdown: b, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranking := &Ranking{Task: task}
	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			s.logger.WarnContext(ctx, "excluding candidate from ranking",
				"task_id", taskID,
				"user_id", users[i].ID,
				observability.ErrorKey, o.err,
			)
			ranking.Excluded = append(ranking.Excluded, Exclusion{UserID: users[i].ID, Err: o.err})
			errs = append(errs, o.err)
			continue
		}
		ranking.Candidates = append(ranking.Candidates, Match{
			UserID:    users[i].ID,
			Score:     o.breakdown.Score,
			Breakdown: *o.breakdown,
		})
	}

	tags := []observability.Tag{observability.T("task_id", strconv.FormatInt(taskID, 10))}
	s.metrics.Counter(observability.MetricRankExcluded, int64(len(ranking.Excluded)), tags...)
	s.metrics.Gauge(observability.MetricRankCandidates, float64(len(ranking.Candidates)), tags...)

	if len(ranking.Candidates) == 0 {
		return nil, fmt.Errorf("task %d: %w: %w", taskID, domain.ErrNoEligibleUsers, errors.Join(errs...))
	}

	sort.SliceStable(ranking.Candidates, func(i, j int) bool {
		return ranking.Candidates[i].Score > ranking.Candidates[j].Score
	})
	ranking.Best = ranking.Candidates[0]

	s.metrics.Timing(observability.MetricRankDuration, time.Since(start), tags...)
	s.metrics.Histogram(observability.MetricMatchScore, ranking.Best.Score, tags...)
	s.logger.DebugContext(ctx, "ranked candidates",
		"task_id", taskID,
		"candidates", len(ranking.Candidates),
		"excluded", len(ranking.Excluded),
		"best_user_id", ranking.Best.UserID,
		"best_score", ranking.Best.Score,
	)

	return ranking, nil
}
