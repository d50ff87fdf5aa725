package persistence

import (
	"cmp"
	"context"
	"slices"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

// MemoryDataSource serves a validated fixture from memory. It is read-only
// after construction. Listings are ordered by id, matching SQLDataSource.
type MemoryDataSource struct {
	tasks        []domain.Task
	users        []domain.User
	skills       []domain.Skill
	userSkills   map[int64][]domain.UserSkill
	availability map[int64]domain.Availability
	analytics    map[int64][]domain.UserAnalytic
}

// NewMemoryDataSource validates the fixture and indexes it.
func NewMemoryDataSource(fixture *Fixture) (*MemoryDataSource, error) {
	m, err := fixture.model()
	if err != nil {
		return nil, err
	}

	ds := &MemoryDataSource{
		tasks:        m.tasks,
		users:        m.users,
		skills:       m.skills,
		userSkills:   make(map[int64][]domain.UserSkill),
		availability: make(map[int64]domain.Availability),
		analytics:    make(map[int64][]domain.UserAnalytic),
	}
	slices.SortFunc(ds.tasks, func(a, b domain.Task) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(ds.users, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(ds.skills, func(a, b domain.Skill) int { return cmp.Compare(a.ID, b.ID) })

	for _, us := range m.userSkills {
		ds.userSkills[us.UserID] = append(ds.userSkills[us.UserID], us)
	}
	for _, skills := range ds.userSkills {
		slices.SortFunc(skills, func(a, b domain.UserSkill) int { return cmp.Compare(a.SkillID, b.SkillID) })
	}
	for _, a := range m.availability {
		ds.availability[a.UserID] = a
	}
	for _, a := range m.analytics {
		ds.analytics[a.UserID] = append(ds.analytics[a.UserID], a)
	}
	for _, analytics := range ds.analytics {
		slices.SortStableFunc(analytics, func(a, b domain.UserAnalytic) int { return a.RecordedAt.Compare(b.RecordedAt) })
	}
	return ds, nil
}

func (ds *MemoryDataSource) GetTask(_ context.Context, id int64) (*domain.Task, error) {
	for i := range ds.tasks {
		if ds.tasks[i].ID == id {
			t := cloneTask(ds.tasks[i])
			return &t, nil
		}
	}
	return nil, domain.NotFoundError("task", id)
}

func (ds *MemoryDataSource) GetTasks(context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(ds.tasks))
	for _, t := range ds.tasks {
		tasks = append(tasks, cloneTask(t))
	}
	return tasks, nil
}

func (ds *MemoryDataSource) GetTasksByUser(_ context.Context, userID int64) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, t := range ds.tasks {
		if t.CreatorID == userID || (t.AssigneeID != nil && *t.AssigneeID == userID) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	return tasks, nil
}

func (ds *MemoryDataSource) GetUser(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range ds.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.NotFoundError("user", id)
}

func (ds *MemoryDataSource) ListUsers(context.Context) ([]domain.User, error) {
	return slices.Clone(ds.users), nil
}

func (ds *MemoryDataSource) GetSkill(_ context.Context, id int64) (*domain.Skill, error) {
	for _, s := range ds.skills {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, domain.NotFoundError("skill", id)
}

func (ds *MemoryDataSource) GetSkills(context.Context) ([]domain.Skill, error) {
	return slices.Clone(ds.skills), nil
}

func (ds *MemoryDataSource) GetUserSkills(_ context.Context, userID int64) ([]domain.UserSkill, error) {
	return slices.Clone(ds.userSkills[userID]), nil
}

func (ds *MemoryDataSource) GetUserAvailability(_ context.Context, userID int64) (*domain.Availability, error) {
	a, ok := ds.availability[userID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (ds *MemoryDataSource) GetUserAnalytics(_ context.Context, userID int64) ([]domain.UserAnalytic, error) {
	return slices.Clone(ds.analytics[userID]), nil
}

func cloneTask(t domain.Task) domain.Task {
	t.RequiredSkills = slices.Clone(t.RequiredSkills)
	return t
}
