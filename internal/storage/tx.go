package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

var (
	ErrTxDone    = errors.New("transaction already committed or rolled back")
	ErrForeignTx = errors.New("transaction does not belong to this store")
)

// Tx is the unit of work shared by repositories taking part in one operation.
// *sql.Tx satisfies it.
type Tx interface {
	Commit() error
	Rollback() error
}

type Beginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// SQLBeginner opens database/sql transactions. A transaction whose context is
// cancelled before Commit is rolled back by the driver.
type SQLBeginner struct {
	DB *sql.DB
}

func NewSQLBeginner(db *sql.DB) *SQLBeginner {
	return &SQLBeginner{DB: db}
}

func (b *SQLBeginner) Begin(ctx context.Context) (Tx, error) {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// SQLTx unwraps a Tx started by SQLBeginner.
func SQLTx(tx Tx) (*sql.Tx, error) {
	sqlTx, ok := tx.(*sql.Tx)
	if !ok {
		return nil, ErrForeignTx
	}
	return sqlTx, nil
}

// MemoryTx backs the in-memory repositories. Repositories mutate their state
// directly and register an undo step; Rollback replays the steps newest first.
type MemoryTx struct {
	mu   sync.Mutex
	undo []func()
	done bool
}

func (t *MemoryTx) OnRollback(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.undo = append(t.undo, fn)
}

func (t *MemoryTx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.undo = nil
	return nil
}

func (t *MemoryTx) Rollback() error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return ErrTxDone
	}
	t.done = true
	undo := t.undo
	t.undo = nil
	t.mu.Unlock()

	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	return nil
}

// MemoryTxFrom unwraps a Tx started by MemoryBeginner.
func MemoryTxFrom(tx Tx) (*MemoryTx, error) {
	memTx, ok := tx.(*MemoryTx)
	if !ok {
		return nil, ErrForeignTx
	}
	return memTx, nil
}

type MemoryBeginner struct{}

func (MemoryBeginner) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &MemoryTx{}, nil
}
