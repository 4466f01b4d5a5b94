// Package txn provides the in-memory transaction boundary shared by the ledger stores.
package txn

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/outbox"
	platformsync "scad/pkg/platform/sync"
)

// DefaultTimeout bounds a transaction when ctx has no deadline.
const DefaultTimeout = 5 * time.Second

// Sharded serialises mutations per owner in process memory. Events appended
// by fn are buffered and reach the outbox only after fn succeeds, while the
// owner lock is still held, so per-owner event order matches commit order.
type Sharded[S any] struct {
	mu       *platformsync.ShardedMutex
	store    S
	events   outbox.Appender
	timeout  time.Duration
	lockWait prometheus.Observer
}

// NewSharded builds a Sharded transaction. lockWait may be nil.
func NewSharded[S any](mu *platformsync.ShardedMutex, store S, events outbox.Appender, timeout time.Duration, lockWait prometheus.Observer) *Sharded[S] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sharded[S]{mu: mu, store: store, events: events, timeout: timeout, lockWait: lockWait}
}

func (t *Sharded[S]) RunInTx(ctx context.Context, owner domain.Address, fn func(ctx context.Context, store S, events outbox.Appender) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	lockStart := time.Now()
	unlock := t.mu.Guard(owner.String())
	if t.lockWait != nil {
		t.lockWait.Observe(time.Since(lockStart).Seconds())
	}
	defer unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	var buf outbox.Buffer
	if err := fn(ctx, t.store, &buf); err != nil {
		return err
	}
	return buf.Flush(ctx, t.events)
}
