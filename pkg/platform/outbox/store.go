package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Appender is the write side used inside a mutation's transaction.
type Appender interface {
	// Append assigns entry.Sequence and persists it.
	// Must be called within the same transaction as the state change it records.
	Append(ctx context.Context, entry *Entry) error
}

// Store defines the outbox persistence operations.
// Implementations must be safe for concurrent use.
type Store interface {
	Appender

	// FetchUnprocessed returns up to limit unpublished entries in sequence order.
	FetchUnprocessed(ctx context.Context, limit int) ([]*Entry, error)

	// MarkProcessed marks an entry as successfully published.
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error

	// CountPending returns the number of unpublished entries.
	CountPending(ctx context.Context) (int64, error)

	// DeleteProcessedBefore removes published entries older than before.
	// The event feed only ever shrinks from the front.
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)

	// ListAfter returns up to limit entries with Sequence > after, ascending.
	ListAfter(ctx context.Context, after int64, limit int) ([]*Entry, error)
}
