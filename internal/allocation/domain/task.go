// Package domain contains the read model of the allocation bounded context:
// tasks, users, skills and the signals the scorer consumes.
package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidPriority   = errors.New("invalid priority value")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// Priority represents task urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority creates a Priority from a string, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", ErrInvalidPriority
	}
}

func (p Priority) String() string { return string(p) }

// TaskStatus represents the task lifecycle state.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
	StatusPending    TaskStatus = "PENDING"
)

// ParseTaskStatus creates a TaskStatus from a string, case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled, StatusPending:
		return st, nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

func (s TaskStatus) String() string { return string(s) }

// IsClosed reports whether the status ends the task lifecycle.
func (s TaskStatus) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Task is a unit of work that can be matched to a user.
type Task struct {
	ID          int64
	Title       string
	Description string
	Priority    Priority
	Status      TaskStatus
	// RequiredSkills is empty for skill-agnostic tasks.
	RequiredSkills []int64
	// CognitiveLoad is an optional 0-100 hint.
	CognitiveLoad *int
	CreatorID     int64
	AssigneeID    *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the task still counts toward a user's workload.
func (t *Task) IsActive() bool {
	return !t.Status.IsClosed()
}

// IsSkillAgnostic reports whether any skill set can take the task.
func (t *Task) IsSkillAgnostic() bool {
	return len(t.RequiredSkills) == 0
}

// RequiresSkill reports whether skillID is in the required set.
func (t *Task) RequiresSkill(skillID int64) bool {
	for _, id := range t.RequiredSkills {
		if id == skillID {
			return true
		}
	}
	return false
}

// CountActive returns the number of tasks that are neither completed nor cancelled.
func CountActive(tasks []Task) int {
	n := 0
	for i := range tasks {
		if tasks[i].IsActive() {
			n++
		}
	}
	return n
}

// CountByStatus returns the number of tasks in the given status.
func CountByStatus(tasks []Task, status TaskStatus) int {
	n := 0
	for i := range tasks {
		if tasks[i].Status == status {
			n++
		}
	}
	return n
}
