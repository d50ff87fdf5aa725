package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database"
)

var taskColumns = []string{
	"id", "title", "description", "priority", "status",
	"cognitive_load", "creator_id", "assignee_id", "created_at", "updated_at",
}

// SQLDataSource implements domain.DataSource over a Postgres or SQLite
// connection. Each read runs inside the context's transaction when one is
// present.
type SQLDataSource struct {
	conn database.Connection
	sb   sq.StatementBuilderType
}

// NewSQLDataSource creates a data source, picking the placeholder format
// from the connection's driver.
func NewSQLDataSource(conn database.Connection) *SQLDataSource {
	return &SQLDataSource{conn: conn, sb: statementBuilder(conn.Driver())}
}

func statementBuilder(driver database.Driver) sq.StatementBuilderType {
	if driver == database.DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func (s *SQLDataSource) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, s.conn)
}

// query runs the built statement and hands every row to scan. Rows are fully
// drained and closed before it returns, so callers may issue the next query
// on a single-connection pool.
func (s *SQLDataSource) query(ctx context.Context, b sq.Sqlizer, scan func(database.Rows) error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := s.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLDataSource) queryRow(ctx context.Context, b sq.Sqlizer, dest ...any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return s.exec(ctx).QueryRow(ctx, query, args...).Scan(dest...)
}

func (s *SQLDataSource) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	tasks, err := s.selectTasks(ctx, sq.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.NotFoundError("task", id)
	}
	return &tasks[0], nil
}

func (s *SQLDataSource) GetTasks(ctx context.Context) ([]domain.Task, error) {
	return s.selectTasks(ctx, nil)
}

func (s *SQLDataSource) GetTasksByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.selectTasks(ctx, sq.Or{sq.Eq{"assignee_id": userID}, sq.Eq{"creator_id": userID}})
}

func (s *SQLDataSource) selectTasks(ctx context.Context, where sq.Sqlizer) ([]domain.Task, error) {
	b := s.sb.Select(taskColumns...).From("tasks").OrderBy("id")
	if where != nil {
		b = b.Where(where)
	}

	var tasks []domain.Task
	err := s.query(ctx, b, func(rows database.Rows) error {
		t, err := scanTask(rows)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]int64, len(tasks))
	index := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		index[t.ID] = i
	}
	req := s.sb.Select("task_id", "skill_id").
		From("task_required_skills").
		Where(sq.Eq{"task_id": ids}).
		OrderBy("task_id", "skill_id")
	err = s.query(ctx, req, func(rows database.Rows) error {
		var taskID, skillID int64
		if err := rows.Scan(&taskID, &skillID); err != nil {
			return err
		}
		i := index[taskID]
		tasks[i].RequiredSkills = append(tasks[i].RequiredSkills, skillID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query required skills: %w", err)
	}
	return tasks, nil
}

func scanTask(row database.Row) (domain.Task, error) {
	var (
		t                    domain.Task
		priority, status     string
		cognitiveLoad        sql.NullInt64
		assigneeID           sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status,
		&cognitiveLoad, &t.CreatorID, &assigneeID, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}

	if t.Priority, err = domain.ParsePriority(priority); err != nil {
		return t, fmt.Errorf("task %d: %w", t.ID, err)
	}
	if t.Status, err = domain.ParseTaskStatus(status); err != nil {
		return t, fmt.Errorf("task %d: %w", t.ID, err)
	}
	if cognitiveLoad.Valid {
		v := int(cognitiveLoad.Int64)
		t.CognitiveLoad = &v
	}
	if assigneeID.Valid {
		v := assigneeID.Int64
		t.AssigneeID = &v
	}
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

func (s *SQLDataSource) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.queryRow(ctx,
		s.sb.Select("id", "name", "email", "avatar").From("users").Where(sq.Eq{"id": id}),
		&u.ID, &u.Name, &u.Email, &u.Avatar,
	)
	if database.IsNoRows(err) {
		return nil, domain.NotFoundError("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	return &u, nil
}

func (s *SQLDataSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.query(ctx, s.sb.Select("id", "name", "email", "avatar").From("users").OrderBy("id"),
		func(rows database.Rows) error {
			var u domain.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar); err != nil {
				return err
			}
			users = append(users, u)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *SQLDataSource) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	var sk domain.Skill
	err := s.queryRow(ctx,
		s.sb.Select("id", "name", "category").From("skills").Where(sq.Eq{"id": id}),
		&sk.ID, &sk.Name, &sk.Category,
	)
	if database.IsNoRows(err) {
		return nil, domain.NotFoundError("skill", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query skill %d: %w", id, err)
	}
	return &sk, nil
}

func (s *SQLDataSource) GetSkills(ctx context.Context) ([]domain.Skill, error) {
	var skills []domain.Skill
	err := s.query(ctx, s.sb.Select("id", "name", "category").From("skills").OrderBy("id"),
		func(rows database.Rows) error {
			var sk domain.Skill
			if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category); err != nil {
				return err
			}
			skills = append(skills, sk)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	return skills, nil
}

func (s *SQLDataSource) GetUserSkills(ctx context.Context, userID int64) ([]domain.UserSkill, error) {
	var skills []domain.UserSkill
	b := s.sb.Select("user_id", "skill_id", "proficiency").
		From("user_skills").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("skill_id")
	err := s.query(ctx, b, func(rows database.Rows) error {
		var us domain.UserSkill
		if err := rows.Scan(&us.UserID, &us.SkillID, &us.Proficiency); err != nil {
			return err
		}
		skills = append(skills, us)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query skills of user %d: %w", userID, err)
	}
	return skills, nil
}

func (s *SQLDataSource) GetUserAvailability(ctx context.Context, userID int64) (*domain.Availability, error) {
	var status string
	err := s.queryRow(ctx,
		s.sb.Select("status").From("availability").Where(sq.Eq{"user_id": userID}),
		&status,
	)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query availability of user %d: %w", userID, err)
	}

	parsed, err := domain.ParseAvailabilityStatus(status)
	if err != nil {
		return nil, fmt.Errorf("availability of user %d: %w", userID, err)
	}
	return &domain.Availability{UserID: userID, Status: parsed}, nil
}

func (s *SQLDataSource) GetUserAnalytics(ctx context.Context, userID int64) ([]domain.UserAnalytic, error) {
	var analytics []domain.UserAnalytic
	b := s.sb.Select("user_id", "metric", "value", "recorded_at").
		From("user_analytics").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("recorded_at", "id")
	err := s.query(ctx, b, func(rows database.Rows) error {
		var (
			a          domain.UserAnalytic
			metric     string
			recordedAt int64
		)
		if err := rows.Scan(&a.UserID, &metric, &a.Value, &recordedAt); err != nil {
			return err
		}
		a.Metric = domain.AnalyticMetric(metric)
		a.RecordedAt = fromMillis(recordedAt)
		analytics = append(analytics, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics of user %d: %w", userID, err)
	}
	return analytics, nil
}

// Timestamps are stored as unix milliseconds; 0 means unset.

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
