package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	consentservice "scad/internal/consent/service"
	consentstore "scad/internal/consent/store"
	"scad/internal/platform/config"
	"scad/internal/platform/database"
	"scad/internal/platform/health"
	registryservice "scad/internal/registry/service"
	registrystore "scad/internal/registry/store"
	"scad/migrations"
	"scad/pkg/platform/outbox"
	outboxmemory "scad/pkg/platform/outbox/store/memory"
	outboxpg "scad/pkg/platform/outbox/store/postgres"
	platformsync "scad/pkg/platform/sync"
	"scad/pkg/platform/txn"
)

// ledgerStores is the persistence selected at startup. Both backends give the
// same guarantees: a mutation and its event commit together, in sequence order.
type ledgerStores struct {
	registryReader registryservice.Reader
	registryTx     registryservice.Tx
	consentStore   consentservice.Store
	consentTx      consentservice.Tx
	outbox         outbox.Store
	close          func() error
}

func buildStores(ctx context.Context, cfg config.Server, reg prometheus.Registerer, checks *health.Handler, log *slog.Logger) (*ledgerStores, error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		return newMemoryStores(cfg), nil
	}

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := migrations.Up(ctx, pool.DB()); err != nil {
		_ = pool.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := reg.Register(collectors.NewDBStatsCollector(pool.DB(), "scad")); err != nil {
		log.Warn("db stats collector not registered", "error", err)
	}
	checks.RegisterCheck("postgres", pool.Health)

	log.Info("using postgres stores",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)
	return newPostgresStores(pool.DB(), cfg, pool.Close), nil
}

func newMemoryStores(cfg config.Server) *ledgerStores {
	mu := platformsync.NewShardedMutex(0)
	events := outboxmemory.New()
	registry := registrystore.NewInMemoryStore()
	consents := consentstore.NewInMemoryStore()
	return &ledgerStores{
		registryReader: registry,
		registryTx:     registryservice.NewShardedTx(mu, registry, events, cfg.TxTimeout),
		consentStore:   consents,
		consentTx:      consentservice.NewShardedTx(mu, consents, events, cfg.TxTimeout),
		outbox:         events,
		close:          func() error { return nil },
	}
}

func newPostgresStores(db *sql.DB, cfg config.Server, closeFn func() error) *ledgerStores {
	return &ledgerStores{
		registryReader: registrystore.NewPostgres(db),
		registryTx: txn.NewPostgres(db, func(tx *sql.Tx) registryservice.Store {
			return registrystore.NewPostgresTx(tx)
		}, cfg.TxTimeout),
		consentStore: consentstore.NewPostgres(db),
		consentTx: txn.NewPostgres(db, func(tx *sql.Tx) consentservice.Store {
			return consentstore.NewPostgresTx(tx)
		}, cfg.TxTimeout),
		outbox: outboxpg.New(db),
		close:  closeFn,
	}
}
