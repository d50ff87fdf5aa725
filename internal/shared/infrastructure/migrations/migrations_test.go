package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/migrations"
)

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, migrations.Run(ctx, conn))
	// re-running is a no-op
	require.NoError(t, migrations.Run(ctx, conn))

	for _, table := range []string{"users", "skills", "user_skills", "availability", "user_analytics", "tasks", "task_required_skills"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestRun_RejectsOutOfRangeProficiency(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrations.Run(ctx, conn))

	_, err = conn.Exec(ctx, `INSERT INTO users (id, name, email) VALUES (1, 'Ada', 'ada@example.com')`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO skills (id, name) VALUES (1, 'Go')`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `INSERT INTO user_skills (user_id, skill_id, proficiency) VALUES (1, 1, 6)`)
	assert.Error(t, err)
}

type unknownDriver struct {
	database.Executor
}

func (unknownDriver) Driver() database.Driver { return "oracle" }

func TestRun_UnknownDriver(t *testing.T) {
	err := migrations.Run(context.Background(), unknownDriver{})
	assert.ErrorContains(t, err, `no migrations for driver "oracle"`)
}
