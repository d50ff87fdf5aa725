package services

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
)

// fakeDataSource is an in-memory domain.DataSource with per-call error injection.
type fakeDataSource struct {
	mu sync.Mutex

	tasks        []domain.Task
	users        []domain.User
	skills       []domain.Skill
	userSkills   map[int64][]domain.UserSkill
	availability map[int64]*domain.Availability
	analytics    map[int64][]domain.UserAnalytic
	userTasks    map[int64][]domain.Task

	usersErr    error
	tasksErr    error
	skillErrs   map[int64]error
	onUserSkill func(ctx context.Context, userID int64) error

	skillCalls int
}

func newFakeDataSource() *fakeDataSource {
	return &fakeDataSource{
		userSkills:   map[int64][]domain.UserSkill{},
		availability: map[int64]*domain.Availability{},
		analytics:    map[int64][]domain.UserAnalytic{},
		userTasks:    map[int64][]domain.Task{},
		skillErrs:    map[int64]error{},
	}
}

func (f *fakeDataSource) addUser(u domain.User, status domain.AvailabilityStatus, active int, skills ...domain.UserSkill) {
	f.users = append(f.users, u)
	if status != "" {
		f.availability[u.ID] = &domain.Availability{UserID: u.ID, Status: status}
	}
	for i := 0; i < active; i++ {
		f.userTasks[u.ID] = append(f.userTasks[u.ID], domain.Task{ID: int64(1000*u.ID) + int64(i), Status: domain.StatusInProgress})
	}
	for i := range skills {
		skills[i].UserID = u.ID
	}
	f.userSkills[u.ID] = skills
}

func (f *fakeDataSource) GetTask(_ context.Context, id int64) (*domain.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, domain.NotFoundError("task", id)
}

func (f *fakeDataSource) GetTasks(context.Context) ([]domain.Task, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	return f.tasks, nil
}

func (f *fakeDataSource) GetTasksByUser(_ context.Context, userID int64) ([]domain.Task, error) {
	return f.userTasks[userID], nil
}

func (f *fakeDataSource) GetUser(_ context.Context, id int64) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, domain.NotFoundError("user", id)
}

func (f *fakeDataSource) ListUsers(context.Context) ([]domain.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeDataSource) GetSkill(_ context.Context, id int64) (*domain.Skill, error) {
	for i := range f.skills {
		if f.skills[i].ID == id {
			s := f.skills[i]
			return &s, nil
		}
	}
	return nil, domain.NotFoundError("skill", id)
}

func (f *fakeDataSource) GetSkills(context.Context) ([]domain.Skill, error) {
	return f.skills, nil
}

func (f *fakeDataSource) GetUserSkills(ctx context.Context, userID int64) ([]domain.UserSkill, error) {
	f.mu.Lock()
	f.skillCalls++
	err := f.skillErrs[userID]
	hook := f.onUserSkill
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, userID); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}
	return f.userSkills[userID], nil
}

func (f *fakeDataSource) GetUserAvailability(_ context.Context, userID int64) (*domain.Availability, error) {
	return f.availability[userID], nil
}

func (f *fakeDataSource) GetUserAnalytics(_ context.Context, userID int64) ([]domain.UserAnalytic, error) {
	return f.analytics[userID], nil
}

// scriptedSource replays fixed draws, cycling when exhausted.
type scriptedSource struct {
	values []float64
	next   int
}

func script(values ...float64) *scriptedSource {
	return &scriptedSource{values: values}
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// drawFor returns the draw that makes BoundedRandomMetric land on target.
func drawFor(baseline, variance, target float64) float64 {
	return ((target-baseline)/variance + 1) / 2
}
