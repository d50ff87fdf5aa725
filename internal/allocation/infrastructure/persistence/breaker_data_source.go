package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the storage circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive storage failures that
	// opens the breaker.
	FailureThreshold uint32

	// MaxRequests is the number of trial reads allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing counts.
	// Zero never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		MaxRequests:      1,
		Interval:         0,
		Timeout:          30 * time.Second,
	}
}

// BreakerDataSource short-circuits reads while storage keeps failing.
// Lookups of missing records and caller cancellations do not count as
// failures. While open, every read fails with domain.ErrStorageUnavailable.
type BreakerDataSource struct {
	next    domain.DataSource
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerDataSource wraps next with a circuit breaker.
func NewBreakerDataSource(next domain.DataSource, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerDataSource {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	settings := gobreaker.Settings{
		Name:        "allocation-storage",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Counter(observability.MetricBreakerChanges, 1,
				observability.T("breaker", name),
				observability.T("to", to.String()),
			)
		},
		IsSuccessful: isBreakerSuccess,
	}

	return &BreakerDataSource{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State reports the current breaker state.
func (b *BreakerDataSource) State() gobreaker.State {
	return b.breaker.State()
}

func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func execute[T any](b *BreakerDataSource, fn func() (T, error)) (T, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	v, _ := result.(T)
	return v, err
}

func (b *BreakerDataSource) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return execute(b, func() (*domain.Task, error) { return b.next.GetTask(ctx, id) })
}

func (b *BreakerDataSource) GetTasks(ctx context.Context) ([]domain.Task, error) {
	return execute(b, func() ([]domain.Task, error) { return b.next.GetTasks(ctx) })
}

func (b *BreakerDataSource) GetTasksByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	return execute(b, func() ([]domain.Task, error) { return b.next.GetTasksByUser(ctx, userID) })
}

func (b *BreakerDataSource) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return execute(b, func() (*domain.User, error) { return b.next.GetUser(ctx, id) })
}

func (b *BreakerDataSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	return execute(b, func() ([]domain.User, error) { return b.next.ListUsers(ctx) })
}

func (b *BreakerDataSource) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	return execute(b, func() (*domain.Skill, error) { return b.next.GetSkill(ctx, id) })
}

func (b *BreakerDataSource) GetSkills(ctx context.Context) ([]domain.Skill, error) {
	return execute(b, func() ([]domain.Skill, error) { return b.next.GetSkills(ctx) })
}

func (b *BreakerDataSource) GetUserSkills(ctx context.Context, userID int64) ([]domain.UserSkill, error) {
	return execute(b, func() ([]domain.UserSkill, error) { return b.next.GetUserSkills(ctx, userID) })
}

func (b *BreakerDataSource) GetUserAvailability(ctx context.Context, userID int64) (*domain.Availability, error) {
	return execute(b, func() (*domain.Availability, error) { return b.next.GetUserAvailability(ctx, userID) })
}

func (b *BreakerDataSource) GetUserAnalytics(ctx context.Context, userID int64) ([]domain.UserAnalytic, error) {
	return execute(b, func() ([]domain.UserAnalytic, error) { return b.next.GetUserAnalytics(ctx, userID) })
}
