package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeCanceled Outcome = "canceled"
	OutcomeError    Outcome = "error"
)

// ClassifyOutcome maps an operation error onto an Outcome. Context
// cancellation and deadlines are caller decisions, not failures.
func ClassifyOutcome(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// Operation measures one named unit of work.
type Operation struct {
	name    string
	start   time.Time
	logger  *slog.Logger
	metrics Metrics
	tags    []Tag
}

// BeginOperation starts measuring. A nil logger or metrics disables that sink.
func BeginOperation(name string, logger *slog.Logger, metrics Metrics, tags ...Tag) *Operation {
	return &Operation{
		name:    name,
		start:   time.Now(),
		logger:  logger,
		metrics: metrics,
		tags:    append(append([]Tag{}, tags...), T(OperationKey, name)),
	}
}

// End records the duration and outcome and returns the elapsed time.
func (o *Operation) End(ctx context.Context, err error) time.Duration {
	elapsed := time.Since(o.start)
	outcome := ClassifyOutcome(err)

	if o.logger != nil {
		attrs := []any{OperationKey, o.name, DurationKey, elapsed.Milliseconds()}
		switch outcome {
		case OutcomeOK:
			o.logger.DebugContext(ctx, "operation completed", attrs...)
		case OutcomeCanceled:
			o.logger.InfoContext(ctx, "operation canceled", append(attrs, ErrorKey, err.Error())...)
		default:
			o.logger.ErrorContext(ctx, "operation failed", append(attrs, ErrorKey, err.Error())...)
		}
	}

	if o.metrics != nil {
		o.metrics.Timing(MetricOperationDuration, elapsed, o.tags...)
		o.metrics.Counter(MetricOperationTotal, 1, o.tags...)
		switch outcome {
		case OutcomeCanceled:
			o.metrics.Counter(MetricOperationCanceled, 1, o.tags...)
		case OutcomeError:
			o.metrics.Counter(MetricOperationErrors, 1, o.tags...)
		}
	}

	return elapsed
}

// Observe runs fn as a measured operation.
func Observe[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, name string, fn func() (T, error)) (T, error) {
	op := BeginOperation(name, logger, metrics)
	result, err := fn()
	op.End(ctx, err)
	return result, err
}
