package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type txKey struct{}

func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Executor returns the transaction carried by ctx, or db when there is none.
func Executor(ctx context.Context, db *sql.DB) Execer {
	if tx := GetTransaction(ctx); tx != nil {
		return tx
	}
	return db
}

// InTransaction runs fn with a transaction attached to its context. The
// transaction is committed when fn succeeds and rolled back otherwise.
func InTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(WithTransaction(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
