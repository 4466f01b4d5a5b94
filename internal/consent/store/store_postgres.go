package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"scad/internal/consent/models"
	"scad/pkg/domain"
	"scad/pkg/platform/sentinel"
)

// PostgresStore persists consent grants in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed consent store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed consent store bound to a transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) Upsert(ctx context.Context, g *models.Grant) error {
	if g == nil {
		return fmt.Errorf("consent grant is required")
	}
	query := `
		INSERT INTO consents (owner, reader, granted, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner, reader) DO UPDATE
		SET granted = EXCLUDED.granted, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.execer().ExecContext(ctx, query, g.Owner.String(), g.Reader.String(), g.Granted, g.UpdatedAt); err != nil {
		return fmt.Errorf("upsert consent: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, owner, reader domain.Address) (*models.Grant, error) {
	query := `
		SELECT owner, reader, granted, updated_at
		FROM consents
		WHERE owner = $1 AND reader = $2
	`
	g, err := scanGrant(s.execer().QueryRowContext(ctx, query, owner.String(), reader.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find consent: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ListGranted(ctx context.Context, owner domain.Address) ([]*models.Grant, error) {
	query := `
		SELECT owner, reader, granted, updated_at
		FROM consents
		WHERE owner = $1 AND granted
		ORDER BY reader
	`
	rows, err := s.execer().QueryContext(ctx, query, owner.String())
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	defer rows.Close()

	var out []*models.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consents: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrant(row rowScanner) (*models.Grant, error) {
	var (
		g      models.Grant
		owner  string
		reader string
	)
	if err := row.Scan(&owner, &reader, &g.Granted, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Owner = domain.Address(owner)
	g.Reader = domain.Address(reader)
	return &g, nil
}
