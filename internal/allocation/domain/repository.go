package domain

import "context"

// DataSource provides the read accessors the allocation core consumes.
// Storage owns the records; the core never writes through this port.
type DataSource interface {
	// GetTask returns ErrNotFound when the task does not exist.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// GetTasks returns every task of the team.
	GetTasks(ctx context.Context) ([]Task, error)

	// GetTasksByUser returns tasks assigned to or created by the user.
	GetTasksByUser(ctx context.Context, userID int64) ([]Task, error)

	// GetUser returns ErrNotFound when the user does not exist.
	GetUser(ctx context.Context, id int64) (*User, error)

	// ListUsers returns the active user population.
	ListUsers(ctx context.Context) ([]User, error)

	// GetSkill returns ErrNotFound when the skill does not exist.
	GetSkill(ctx context.Context, id int64) (*Skill, error)

	// GetSkills returns the skill catalog.
	GetSkills(ctx context.Context) ([]Skill, error)

	// GetUserSkills returns the skills held by the user.
	GetUserSkills(ctx context.Context, userID int64) ([]UserSkill, error)

	// GetUserAvailability returns nil without error when no record exists.
	GetUserAvailability(ctx context.Context, userID int64) (*Availability, error)

	// GetUserAnalytics returns all recorded analytics of the user.
	GetUserAnalytics(ctx context.Context, userID int64) ([]UserAnalytic, error)
}
