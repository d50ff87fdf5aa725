package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database"
)

// seedTables lists the read-model tables children first, the order rows are
// deleted in.
var seedTables = []string{
	"task_required_skills",
	"tasks",
	"user_analytics",
	"availability",
	"user_skills",
	"skills",
	"users",
}

// SeedResult counts the rows written by Seed.
type SeedResult struct {
	Users      int
	Skills     int
	UserSkills int
	Analytics  int
	Tasks      int
}

// Seed replaces the whole read model with the fixture in one transaction.
func Seed(ctx context.Context, conn database.Connection, fixture *Fixture) (*SeedResult, error) {
	m, err := fixture.model()
	if err != nil {
		return nil, err
	}

	var result *SeedResult
	err = database.NewUnitOfWork(conn).Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = writeModel(ctx, database.ExecutorFromContext(ctx, conn), statementBuilder(conn.Driver()), m)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed: %w", err)
	}
	return result, nil
}

func writeModel(ctx context.Context, exec database.Executor, sb sq.StatementBuilderType, m *teamModel) (*SeedResult, error) {
	run := func(b sq.Sqlizer) error {
		query, args, err := b.ToSql()
		if err != nil {
			return err
		}
		_, err = exec.Exec(ctx, query, args...)
		return err
	}

	for _, table := range seedTables {
		if err := run(sb.Delete(table)); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	result := &SeedResult{}
	for _, u := range m.users {
		if err := run(sb.Insert("users").Columns("id", "name", "email", "avatar").
			Values(u.ID, u.Name, u.Email, u.Avatar)); err != nil {
			return nil, fmt.Errorf("failed to insert user %d: %w", u.ID, err)
		}
		result.Users++
	}
	for _, s := range m.skills {
		if err := run(sb.Insert("skills").Columns("id", "name", "category").
			Values(s.ID, s.Name, s.Category)); err != nil {
			return nil, fmt.Errorf("failed to insert skill %d: %w", s.ID, err)
		}
		result.Skills++
	}
	for _, us := range m.userSkills {
		if err := run(sb.Insert("user_skills").Columns("user_id", "skill_id", "proficiency").
			Values(us.UserID, us.SkillID, us.Proficiency)); err != nil {
			return nil, fmt.Errorf("failed to insert skill %d of user %d: %w", us.SkillID, us.UserID, err)
		}
		result.UserSkills++
	}
	for _, a := range m.availability {
		if err := run(sb.Insert("availability").Columns("user_id", "status").
			Values(a.UserID, a.Status.String())); err != nil {
			return nil, fmt.Errorf("failed to insert availability of user %d: %w", a.UserID, err)
		}
	}
	for _, a := range m.analytics {
		if err := run(sb.Insert("user_analytics").Columns("user_id", "metric", "value", "recorded_at").
			Values(a.UserID, string(a.Metric), a.Value, toMillis(a.RecordedAt))); err != nil {
			return nil, fmt.Errorf("failed to insert analytics of user %d: %w", a.UserID, err)
		}
		result.Analytics++
	}
	for _, t := range m.tasks {
		if err := run(sb.Insert("tasks").Columns(taskColumns...).Values(
			t.ID, t.Title, t.Description, t.Priority.String(), t.Status.String(),
			nullable(t.CognitiveLoad), t.CreatorID, nullable(t.AssigneeID), toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
		)); err != nil {
			return nil, fmt.Errorf("failed to insert task %d: %w", t.ID, err)
		}
		for _, skillID := range t.RequiredSkills {
			if err := run(sb.Insert("task_required_skills").Columns("task_id", "skill_id").
				Values(t.ID, skillID)); err != nil {
				return nil, fmt.Errorf("failed to insert required skill %d of task %d: %w", skillID, t.ID, err)
			}
		}
		result.Tasks++
	}
	return result, nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
