package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"scad/internal/identifier"
	"scad/internal/registry/models"
	"scad/pkg/domain"
	"scad/pkg/platform/sentinel"
)

// PostgresStore persists registrations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed registry store bound to a transaction.
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

func (s *PostgresStore) Create(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("registration record is required")
	}
	query := `
		INSERT INTO registrations (owner, identifier, is_company, registered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner) DO NOTHING
		RETURNING owner
	`
	var stored string
	err := s.execer().QueryRowContext(ctx, query,
		record.Owner.String(),
		record.Identifier.String(),
		record.IsCompany,
		record.RegisteredAt,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, owner domain.Address) (*models.Record, error) {
	query := `
		SELECT owner, identifier, is_company, registered_at
		FROM registrations
		WHERE owner = $1
	`
	var (
		r         models.Record
		ownerText string
		identText string
	)
	err := s.execer().QueryRowContext(ctx, query, owner.String()).Scan(&ownerText, &identText, &r.IsCompany, &r.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	r.Owner = domain.Address(ownerText)
	r.Identifier = identifier.Digits(identText)
	return &r, nil
}
