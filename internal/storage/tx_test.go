package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTx_RollbackReplaysInReverse(t *testing.T) {
	tx, err := MemoryBeginner{}.Begin(context.Background())
	require.NoError(t, err)
	memTx, err := MemoryTxFrom(tx)
	require.NoError(t, err)

	var order []int
	memTx.OnRollback(func() { order = append(order, 1) })
	memTx.OnRollback(func() { order = append(order, 2) })
	memTx.OnRollback(func() { order = append(order, 3) })

	require.NoError(t, tx.Rollback())
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.ErrorIs(t, tx.Rollback(), ErrTxDone)
}

func TestMemoryTx_CommitDiscardsUndo(t *testing.T) {
	memTx := &MemoryTx{}
	called := false
	memTx.OnRollback(func() { called = true })

	require.NoError(t, memTx.Commit())
	assert.ErrorIs(t, memTx.Rollback(), ErrTxDone)
	assert.False(t, called)
}

func TestMemoryBeginner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MemoryBeginner{}.Begin(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLBeginner_Begin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := NewSQLBeginner(db).Begin(context.Background())
	require.NoError(t, err)
	sqlTx, err := SQLTx(tx)
	require.NoError(t, err)
	require.NoError(t, sqlTx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBeginner_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("conn refused"))
	_, err = NewSQLBeginner(db).Begin(context.Background())
	assert.Error(t, err)
}

func TestSQLTx_ForeignTx(t *testing.T) {
	_, err := SQLTx(&MemoryTx{})
	assert.ErrorIs(t, err, ErrForeignTx)
	_, err = MemoryTxFrom(nil)
	assert.ErrorIs(t, err, ErrForeignTx)
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))
	err = EnsureSchema(context.Background(), db)
	assert.ErrorContains(t, err, "ensure schema")
}
