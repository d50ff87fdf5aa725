package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a task, user or skill id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrNoEligibleUsers is returned when ranking has no candidate to score.
	ErrNoEligibleUsers = errors.New("no eligible users")
	// ErrStorageUnavailable is returned when storage reads are short-circuited.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// NotFoundError wraps ErrNotFound with the kind and id that failed to resolve.
func NotFoundError(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}
