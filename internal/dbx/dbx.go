// Package dbx holds the small database seams the repositories are built on:
// DBTX, satisfied by both *sql.DB and *sql.Tx, and a Runner that executes a
// function inside a transaction so every mutating service operation commits
// or rolls back as one unit.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the repositories use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Runner executes fn atomically. Implementations guarantee that if fn
// returns an error, none of the writes it issued through the handle are
// observable.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLRunner runs functions inside real database transactions.
type SQLRunner struct {
	DB   *sql.DB
	Opts *sql.TxOptions
}

// InTx begins a transaction, runs fn against it, commits on success and
// rolls back on error or panic. Panics are rethrown after rollback.
func (r SQLRunner) InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := r.DB.BeginTx(ctx, r.Opts)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(ctx, tx)
}

// Passthrough invokes fn directly with a nil handle. It backs the in-memory
// repositories, which keep their own locking and are only used where the
// precondition checks run before any write.
type Passthrough struct{}

func (Passthrough) InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return fn(ctx, nil)
}
