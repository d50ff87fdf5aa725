package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database"
)

func openTemp(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "nested", "taskmatch.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t,
		"/tmp/team.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		buildDSN("/tmp/team.db", 0),
	)
	assert.Contains(t, buildDSN("file:team.db?mode=rwc", 250*time.Millisecond),
		"file:team.db?mode=rwc&_pragma=journal_mode(WAL)")
	assert.Contains(t, buildDSN("team.db", 250*time.Millisecond), "busy_timeout(250)")
}

func TestNewConnection_CreatesDirectory(t *testing.T) {
	conn := openTemp(t)

	require.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.FileExists(t, conn.(*Connection).Path())
}

func TestNewConnection_FromURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url.db")
	conn, err := database.NewConnection(context.Background(), database.Config{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, path, conn.(*Connection).Path())
}

func TestConnection_EnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)

	_, err := conn.Exec(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `CREATE TABLE tasks (id INTEGER PRIMARY KEY, assignee_id INTEGER REFERENCES users(id))`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `INSERT INTO tasks (id, assignee_id) VALUES (1, 42)`)
	assert.Error(t, err)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)

	_, err := conn.Exec(ctx, `CREATE TABLE skills (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	result, err := conn.Exec(ctx, `INSERT INTO skills (id, name) VALUES (?, ?), (?, ?)`, 1, "Go", 2, "SQL")
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	var name string
	require.NoError(t, conn.QueryRow(ctx, `SELECT name FROM skills WHERE id = ?`, 2).Scan(&name))
	assert.Equal(t, "SQL", name)

	err = conn.QueryRow(ctx, `SELECT name FROM skills WHERE id = ?`, 3).Scan(&name)
	assert.True(t, database.IsNoRows(err))

	rows, err := conn.Query(ctx, `SELECT name FROM skills ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Go", "SQL"}, names)
}

func TestConnection_UnitOfWork(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)
	uow := database.NewUnitOfWork(conn)

	_, err := conn.Exec(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	require.NoError(t, uow.Do(ctx, func(ctx context.Context) error {
		_, err := database.ExecutorFromContext(ctx, conn).Exec(ctx, `INSERT INTO users (id, name) VALUES (1, 'Ada')`)
		return err
	}))

	err = uow.Do(ctx, func(ctx context.Context) error {
		exec := database.ExecutorFromContext(ctx, conn)
		if _, err := exec.Exec(ctx, `INSERT INTO users (id, name) VALUES (2, 'Grace')`); err != nil {
			return err
		}
		_, err := exec.Exec(ctx, `INSERT INTO users (id, name) VALUES (1, 'Duplicate')`)
		return err
	})
	require.Error(t, err)

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}
