// Package tx carries a *sql.Tx on the context so store methods called inside
// RunInTx share one transaction without changing their signatures.
package tx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "idrecon/pkg/domain-errors"
)

// defaultTimeout bounds transactions whose caller set no deadline. Large
// learner batches insert row by row, so this is generous.
const defaultTimeout = 30 * time.Second

type txKey struct{}

// WithTx returns ctx carrying tx. A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// RunInTx calls fn with a context carrying a transaction and commits when fn
// returns nil. When ctx already carries a transaction fn joins it and the
// outermost caller decides the outcome.
func RunInTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer sqlTx.Rollback() //nolint:errcheck

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
