//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"scad/migrations"
)

// ledgerTables are the tables the migrations create, in no particular order.
var ledgerTables = []string{"registrations", "consents", "outbox"}

type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts PostgreSQL and applies every up migration.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("scad_test"),
		postgres.WithUsername("scad"),
		postgres.WithPassword("scad_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "open postgres")
	require.NoError(t, migrations.Up(ctx, db), "apply migrations")

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateAll empties every ledger table in one statement and restarts the
// outbox sequence at 1.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(ledgerTables, ", ")+" RESTART IDENTITY")
	return err
}

func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// Count returns the row count of table.
func (p *PostgresContainer) Count(ctx context.Context, t testing.TB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, p.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n), "count %s", table)
	return n
}
