package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"scad/pkg/domain"
	"scad/pkg/platform/outbox"
	platformsync "scad/pkg/platform/sync"
	"scad/pkg/platform/txn"
)

var shardLockWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "scad_consent_shard_lock_wait_seconds",
	Help:    "Time spent waiting to acquire the per-owner consent lock",
	Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})

// Tx runs fn atomically for one owner. The store and appender handed to fn
// share the transaction, so the consent write and its event commit together.
type Tx interface {
	RunInTx(ctx context.Context, owner domain.Address, fn func(ctx context.Context, store Store, events outbox.Appender) error) error
}

// NewShardedTx returns the in-memory Tx. timeout <= 0 uses txn.DefaultTimeout.
func NewShardedTx(mu *platformsync.ShardedMutex, store Store, events outbox.Appender, timeout time.Duration) Tx {
	return txn.NewSharded[Store](mu, store, events, timeout, shardLockWaitDuration)
}
