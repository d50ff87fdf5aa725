package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTx struct {
	Executor
	committed  int
	rolledBack int
}

func (t *recordingTx) Commit(context.Context) error {
	t.committed++
	return nil
}

func (t *recordingTx) Rollback(context.Context) error {
	t.rolledBack++
	return nil
}

type recordingConn struct {
	Executor
	txs []*recordingTx
}

func (c *recordingConn) BeginTx(context.Context) (Transaction, error) {
	tx := &recordingTx{}
	c.txs = append(c.txs, tx)
	return tx, nil
}

func (c *recordingConn) Close() error               { return nil }
func (c *recordingConn) Ping(context.Context) error { return nil }
func (c *recordingConn) Driver() Driver             { return DriverSQLite }

func TestExecutorFromContext(t *testing.T) {
	conn := &recordingConn{}
	ctx := context.Background()
	assert.Same(t, conn, ExecutorFromContext(ctx, conn))

	tx := &recordingTx{}
	assert.Same(t, tx, ExecutorFromContext(WithTx(ctx, tx, true), conn))
}

func TestUnitOfWork_NestedBeginJoinsOuter(t *testing.T) {
	conn := &recordingConn{}
	uow := NewUnitOfWork(conn)

	outer, err := uow.Begin(context.Background())
	require.NoError(t, err)
	inner, err := uow.Begin(outer)
	require.NoError(t, err)
	require.Len(t, conn.txs, 1)

	require.NoError(t, uow.Commit(inner))
	assert.Equal(t, 0, conn.txs[0].committed)

	require.NoError(t, uow.Commit(outer))
	assert.Equal(t, 1, conn.txs[0].committed)
}

func TestUnitOfWork_WithoutTransaction(t *testing.T) {
	uow := NewUnitOfWork(&recordingConn{})
	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
}

func TestUnitOfWork_Do(t *testing.T) {
	conn := &recordingConn{}
	uow := NewUnitOfWork(conn)

	require.NoError(t, uow.Do(context.Background(), func(ctx context.Context) error {
		assert.Same(t, conn.txs[0], ExecutorFromContext(ctx, conn))
		return nil
	}))
	assert.Equal(t, 1, conn.txs[0].committed)

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, conn.txs[1].committed)
	assert.Equal(t, 1, conn.txs[1].rolledBack)
}
