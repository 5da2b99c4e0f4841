package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/devlingo/devlingo/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call inside a
// transaction, counting from 1. Reads pass through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingExec{DBTX: tx, err: u.Err}
	wrapped.failOn = func(string) bool { return wrapped.count.Add(1) == u.FailOn }
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// FailExecMatching wraps conn so that every ExecContext whose SQL contains
// fragment returns err. Use it to break one write path of a repository while
// its reads keep working.
func FailExecMatching(conn db.DBTX, fragment string, err error) db.DBTX {
	return &failingExec{
		DBTX:   conn,
		err:    err,
		failOn: func(q string) bool { return strings.Contains(q, fragment) },
	}
}

// FailQueryMatching wraps conn so that every QueryContext whose SQL contains
// fragment returns err.
func FailQueryMatching(conn db.DBTX, fragment string, err error) db.DBTX {
	return &failingQuery{DBTX: conn, fragment: fragment, err: err}
}

type failingExec struct {
	db.DBTX
	count  atomic.Int32
	failOn func(query string) bool
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.failOn(query) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

type failingQuery struct {
	db.DBTX
	fragment string
	err      error
}

func (f *failingQuery) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if strings.Contains(query, f.fragment) {
		return nil, f.err
	}
	return f.DBTX.QueryContext(ctx, query, args...)
}
