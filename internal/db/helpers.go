package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction without caring which.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings as NULL instead of empty strings.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullIfZero helps store optional foreign keys as NULL instead of 0.
func NullIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

// WithTx runs fn inside a transaction. Any error (or panic) rolls the whole
// unit of work back so partial application is never observable.
func WithTx(ctx context.Context, sqlDB *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
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
	return fn(tx)
}
