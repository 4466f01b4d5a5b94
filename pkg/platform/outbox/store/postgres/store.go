package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scad/pkg/platform/outbox"
)

// appendLockKey is the advisory lock taken by every transactional Append.
// Holding it until commit makes BIGSERIAL order equal commit order.
const appendLockKey int64 = 0x5ca0_0001

// maxBatch caps a single fetch.
const maxBatch = 1000

// Store implements outbox.Store using PostgreSQL.
type Store struct {
	db *sql.DB
	tx *sql.Tx
}

// New creates a PostgreSQL outbox store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// NewTx creates an outbox store bound to an open transaction.
func NewTx(tx *sql.Tx) *Store {
	return &Store{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Append inserts entry and sets its Sequence.
// Inside a transaction it first serialises on appendLockKey so no later
// sequence can commit before an earlier one.
func (s *Store) Append(ctx context.Context, entry *outbox.Entry) error {
	if entry == nil {
		return fmt.Errorf("outbox entry is required")
	}
	if s.tx != nil {
		if _, err := s.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, appendLockKey); err != nil {
			return fmt.Errorf("lock outbox sequence: %w", err)
		}
	}
	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sequence
	`
	err := s.execer().QueryRowContext(ctx, query,
		entry.ID,
		entry.AggregateType,
		entry.AggregateID,
		entry.EventType,
		json.RawMessage(entry.Payload),
		entry.CreatedAt,
	).Scan(&entry.Sequence)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// FetchUnprocessed returns up to limit pending entries in sequence order.
// Rows are not locked: one publisher runs per deployment, and a batch read
// twice is skipped downstream by per-owner sequence.
func (s *Store) FetchUnprocessed(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	limit = min(limit, maxBatch)
	query := `
		SELECT sequence, id, aggregate_type, aggregate_id, event_type, payload, created_at, processed_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY sequence
		LIMIT $1
	`
	return s.queryEntries(ctx, query, limit)
}

// ListAfter returns entries strictly after the given sequence, ascending.
func (s *Store) ListAfter(ctx context.Context, after int64, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	limit = min(limit, maxBatch)
	query := `
		SELECT sequence, id, aggregate_type, aggregate_id, event_type, payload, created_at, processed_at
		FROM outbox
		WHERE sequence > $1
		ORDER BY sequence
		LIMIT $2
	`
	return s.queryEntries(ctx, query, after, limit)
}

// MarkProcessed marks an entry as successfully published.
func (s *Store) MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	result, err := s.execer().ExecContext(ctx,
		`UPDATE outbox SET processed_at = $2 WHERE id = $1 AND processed_at IS NULL`,
		id, processedAt,
	)
	if err != nil {
		return fmt.Errorf("mark outbox entry processed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("outbox entry not found or already processed: %s", id)
	}
	return nil
}

// CountPending returns the number of unpublished entries.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := s.execer().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outbox WHERE processed_at IS NULL`,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending entries: %w", err)
	}
	return count, nil
}

// DeleteProcessedBefore removes published entries older than before.
func (s *Store) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.execer().ExecContext(ctx,
		`DELETE FROM outbox WHERE processed_at IS NOT NULL AND processed_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("delete processed entries: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]*outbox.Entry, error) {
	rows, err := s.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []*outbox.Entry
	for rows.Next() {
		var e outbox.Entry
		var payload []byte
		var processedAt sql.NullTime
		if err := rows.Scan(&e.Sequence, &e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &payload, &e.CreatedAt, &processedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Payload = payload
		if processedAt.Valid {
			e.ProcessedAt = &processedAt.Time
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return entries, nil
}

var _ outbox.Store = (*Store)(nil)
