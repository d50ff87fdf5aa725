// Package persistence provides the allocation DataSource implementations:
// SQL-backed, in-memory, and the cache and circuit-breaker decorators.
package persistence

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/security"
)

// Fixture is a team snapshot in YAML form, used for seeding and for the
// in-memory data source.
type Fixture struct {
	Skills []FixtureSkill `yaml:"skills"`
	Users  []FixtureUser  `yaml:"users"`
	Tasks  []FixtureTask  `yaml:"tasks"`
}

// FixtureSkill is a catalog entry.
type FixtureSkill struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// FixtureUser is a team member with their skills and signals.
type FixtureUser struct {
	ID           int64              `yaml:"id"`
	Name         string             `yaml:"name"`
	Email        string             `yaml:"email"`
	Avatar       string             `yaml:"avatar"`
	Availability string             `yaml:"availability"`
	Skills       []FixtureUserSkill `yaml:"skills"`
	Analytics    []FixtureAnalytic  `yaml:"analytics"`
}

// FixtureUserSkill is a held skill.
type FixtureUserSkill struct {
	Skill       int64 `yaml:"skill"`
	Proficiency int   `yaml:"proficiency"`
}

// FixtureAnalytic is one recorded metric value.
type FixtureAnalytic struct {
	Metric     string    `yaml:"metric"`
	Value      float64   `yaml:"value"`
	RecordedAt time.Time `yaml:"recorded_at"`
}

// FixtureTask is a task with optional hint and assignee.
type FixtureTask struct {
	ID             int64     `yaml:"id"`
	Title          string    `yaml:"title"`
	Description    string    `yaml:"description"`
	Priority       string    `yaml:"priority"`
	Status         string    `yaml:"status"`
	RequiredSkills []int64   `yaml:"required_skills"`
	CognitiveLoad  *int      `yaml:"cognitive_load"`
	CreatorID      int64     `yaml:"creator_id"`
	AssigneeID     *int64    `yaml:"assignee_id"`
	CreatedAt      time.Time `yaml:"created_at"`
	UpdatedAt      time.Time `yaml:"updated_at"`
}

// maxFixtureBytes bounds the fixture files LoadFixture accepts.
const maxFixtureBytes = 8 << 20

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	f, err := security.SafeOpen(path, maxFixtureBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	fixture, err := ParseFixture(f)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return fixture, nil
}

// ParseFixture decodes a fixture, rejecting unknown fields.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &fixture, nil
}

// teamModel is a validated fixture in domain types.
type teamModel struct {
	skills       []domain.Skill
	users        []domain.User
	userSkills   []domain.UserSkill
	availability []domain.Availability
	analytics    []domain.UserAnalytic
	tasks        []domain.Task
}

// model validates the fixture and converts it. Every problem found is
// reported, not just the first.
func (f *Fixture) model() (*teamModel, error) {
	var (
		m    teamModel
		errs []error
	)

	skillIDs := make(map[int64]struct{}, len(f.Skills))
	for _, s := range f.Skills {
		if _, dup := skillIDs[s.ID]; dup {
			errs = append(errs, fmt.Errorf("skill %d: duplicate id", s.ID))
			continue
		}
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("skill %d: name is required", s.ID))
		}
		skillIDs[s.ID] = struct{}{}
		m.skills = append(m.skills, domain.Skill{ID: s.ID, Name: s.Name, Category: strings.ToLower(s.Category)})
	}

	userIDs := make(map[int64]struct{}, len(f.Users))
	for _, u := range f.Users {
		if _, dup := userIDs[u.ID]; dup {
			errs = append(errs, fmt.Errorf("user %d: duplicate id", u.ID))
			continue
		}
		userIDs[u.ID] = struct{}{}
		if u.Email == "" {
			errs = append(errs, fmt.Errorf("user %d: email is required", u.ID))
		}
		m.users = append(m.users, domain.User{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar})

		if u.Availability != "" {
			status, err := domain.ParseAvailabilityStatus(u.Availability)
			if err != nil {
				errs = append(errs, fmt.Errorf("user %d: %w: %q", u.ID, err, u.Availability))
			} else {
				m.availability = append(m.availability, domain.Availability{UserID: u.ID, Status: status})
			}
		}

		held := make(map[int64]struct{}, len(u.Skills))
		for _, us := range u.Skills {
			switch _, known := skillIDs[us.Skill]; {
			case !known:
				errs = append(errs, fmt.Errorf("user %d: unknown skill %d", u.ID, us.Skill))
			case us.Proficiency < domain.MinProficiency || us.Proficiency > domain.MaxProficiency:
				errs = append(errs, fmt.Errorf("user %d: skill %d proficiency %d out of range", u.ID, us.Skill, us.Proficiency))
			default:
				if _, dup := held[us.Skill]; dup {
					errs = append(errs, fmt.Errorf("user %d: skill %d listed twice", u.ID, us.Skill))
					continue
				}
				held[us.Skill] = struct{}{}
				m.userSkills = append(m.userSkills, domain.UserSkill{UserID: u.ID, SkillID: us.Skill, Proficiency: us.Proficiency})
			}
		}

		for _, a := range u.Analytics {
			if a.Metric == "" {
				errs = append(errs, fmt.Errorf("user %d: analytic metric is required", u.ID))
				continue
			}
			m.analytics = append(m.analytics, domain.UserAnalytic{
				UserID:     u.ID,
				Metric:     domain.AnalyticMetric(strings.ToUpper(a.Metric)),
				Value:      a.Value,
				RecordedAt: a.RecordedAt.UTC(),
			})
		}
	}

	taskIDs := make(map[int64]struct{}, len(f.Tasks))
	for _, t := range f.Tasks {
		if _, dup := taskIDs[t.ID]; dup {
			errs = append(errs, fmt.Errorf("task %d: duplicate id", t.ID))
			continue
		}
		taskIDs[t.ID] = struct{}{}

		priority, err := domain.ParsePriority(t.Priority)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w: %q", t.ID, err, t.Priority))
		}
		status, err := domain.ParseTaskStatus(t.Status)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w: %q", t.ID, err, t.Status))
		}
		if t.CognitiveLoad != nil && (*t.CognitiveLoad < 0 || *t.CognitiveLoad > 100) {
			errs = append(errs, fmt.Errorf("task %d: cognitive load %d out of range", t.ID, *t.CognitiveLoad))
		}
		if t.AssigneeID != nil {
			if _, ok := userIDs[*t.AssigneeID]; !ok {
				errs = append(errs, fmt.Errorf("task %d: unknown assignee %d", t.ID, *t.AssigneeID))
			}
		}
		for _, id := range t.RequiredSkills {
			if _, ok := skillIDs[id]; !ok {
				errs = append(errs, fmt.Errorf("task %d: unknown required skill %d", t.ID, id))
			}
		}

		required := slices.Clone(t.RequiredSkills)
		slices.Sort(required)
		m.tasks = append(m.tasks, domain.Task{
			ID:             t.ID,
			Title:          t.Title,
			Description:    t.Description,
			Priority:       priority,
			Status:         status,
			RequiredSkills: slices.Compact(required),
			CognitiveLoad:  t.CognitiveLoad,
			CreatorID:      t.CreatorID,
			AssigneeID:     t.AssigneeID,
			CreatedAt:      t.CreatedAt.UTC(),
			UpdatedAt:      t.UpdatedAt.UTC(),
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid fixture: %w", errors.Join(errs...))
	}
	return &m, nil
}
