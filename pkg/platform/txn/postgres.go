package txn

import (
	"context"
	"database/sql"
	"time"

	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/outbox"
	outboxpg "scad/pkg/platform/outbox/store/postgres"
)

// Postgres runs fn inside a database transaction. The store built by bind and
// the outbox appender share that transaction, so a mutation and its events
// commit or roll back together.
type Postgres[S any] struct {
	db      *sql.DB
	bind    func(tx *sql.Tx) S
	timeout time.Duration
}

// NewPostgres builds a Postgres transaction. timeout <= 0 uses DefaultTimeout.
func NewPostgres[S any](db *sql.DB, bind func(tx *sql.Tx) S, timeout time.Duration) *Postgres[S] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Postgres[S]{db: db, bind: bind, timeout: timeout}
}

// RunInTx ignores owner: row locks and the outbox advisory lock already
// serialise conflicting writers.
func (t *Postgres[S]) RunInTx(ctx context.Context, _ domain.Address, fn func(ctx context.Context, store S, events outbox.Appender) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapCtx(ctx, err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if err := fn(ctx, t.bind(tx), outboxpg.NewTx(tx)); err != nil {
		return wrapCtx(ctx, err)
	}
	if err := tx.Commit(); err != nil {
		return wrapCtx(ctx, err)
	}
	return nil
}

// wrapCtx reports deadline expiry as a timeout so callers can tell it apart
// from storage failures. Other errors pass through untouched.
func wrapCtx(ctx context.Context, err error) error {
	if ctx.Err() != nil && !dErrors.HasCode(err, dErrors.CodeTimeout) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction timed out")
	}
	return err
}
