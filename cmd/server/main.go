package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	accessadapters "scad/internal/access/adapters"
	accesshandler "scad/internal/access/handler"
	accessmetrics "scad/internal/access/metrics"
	accessservice "scad/internal/access/service"
	"scad/internal/access/tracer"
	consenthandler "scad/internal/consent/handler"
	consentmetrics "scad/internal/consent/metrics"
	consentservice "scad/internal/consent/service"
	"scad/internal/events"
	eventshandler "scad/internal/events/handler"
	jwttoken "scad/internal/jwt_token"
	"scad/internal/platform/config"
	"scad/internal/platform/health"
	"scad/internal/platform/kafka"
	"scad/internal/platform/kafka/producer"
	"scad/internal/platform/logger"
	"scad/internal/platform/metrics"
	"scad/internal/platform/redis"
	registryhandler "scad/internal/registry/handler"
	registrymetrics "scad/internal/registry/metrics"
	registryservice "scad/internal/registry/service"
	registrystore "scad/internal/registry/store"
	httptransport "scad/internal/transport/http"
	outboxmetrics "scad/pkg/platform/outbox/metrics"
	"scad/pkg/platform/outbox/worker"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scad:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv(ctx)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	trusted, err := parseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	log.Info("initializing scad",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	reg := prometheus.DefaultRegisterer
	checks := health.New(cfg.Environment)
	g, gctx := errgroup.WithContext(ctx)

	stores, err := buildStores(ctx, cfg, reg, checks, log)
	if err != nil {
		return err
	}
	defer closeQuietly(log, "database", stores.close)

	registryMetrics := registrymetrics.New(reg)
	registryReader := stores.registryReader
	if cfg.Redis.URL != "" {
		rc, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer closeQuietly(log, "redis", rc.Close)
		checks.RegisterCheck("redis", rc.Health)
		if err := reg.Register(rc.Collector("scad")); err != nil {
			log.Warn("redis pool collector not registered", "error", err)
		}
		registryReader = registrystore.NewCachedReader(registryReader, rc.Client, cfg.Redis.RecordCacheTTL, registryMetrics, log)
		log.Info("registration record cache enabled", "ttl", cfg.Redis.RecordCacheTTL)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := startPublisher(ctx, cfg, checks, log)
		if err != nil {
			return err
		}
		defer closeQuietly(log, "kafka producer", pub.producer.Close)
		defer pub.admin.Close()

		w := worker.New(stores.outbox, pub.producer,
			worker.WithTopic(cfg.Kafka.EventsTopic),
			worker.WithBatchSize(cfg.Outbox.BatchSize),
			worker.WithPollInterval(cfg.Outbox.PollInterval),
			worker.WithRetention(cfg.Outbox.Retention),
			worker.WithMetrics(outboxmetrics.New(reg)),
			worker.WithLogger(log),
		)
		g.Go(func() error { return w.Run(gctx) })
	} else {
		log.Warn("KAFKA_BROKERS not set, ledger events stay in the outbox and are served by /events only")
	}

	registrySvc := registryservice.New(registryReader, stores.registryTx,
		registryservice.WithMetrics(registryMetrics),
		registryservice.WithLogger(log),
	)
	consentSvc := consentservice.New(stores.consentStore, stores.consentTx,
		consentservice.WithMetrics(consentmetrics.New(reg)),
		consentservice.WithLogger(log),
	)
	var accessTracer tracer.Tracer = tracer.NewNoop()
	if cfg.OTelEnabled {
		accessTracer = tracer.NewOTel()
	}
	accessSvc := accessservice.New(
		accessadapters.NewRegistryAdapter(registrySvc),
		accessadapters.NewConsentAdapter(consentSvc),
		accessservice.WithTracer(accessTracer),
		accessservice.WithMetrics(accessmetrics.New(reg)),
		accessservice.WithLogger(log),
	)
	feed := events.NewFeed(stores.outbox, log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Validator:      jwttoken.NewJWTServiceAdapter(jwtService),
		Observer:       metrics.New(reg),
		Gatherer:       prometheus.DefaultGatherer,
		TrustedProxies: trusted,
		Public:         []httptransport.Routes{checks},
		Protected: []httptransport.Routes{
			registryhandler.New(registrySvc, log),
			accesshandler.New(accessSvc, log),
			consenthandler.New(consentSvc, log),
			eventshandler.New(feed, log),
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

type publisher struct {
	admin    *kafka.Admin
	producer *producer.Producer
}

// startPublisher makes sure the events topic exists before the outbox worker
// starts producing to it.
func startPublisher(ctx context.Context, cfg config.Server, checks *health.Handler, log *slog.Logger) (*publisher, error) {
	admin, err := kafka.NewAdmin(cfg.Kafka.Brokers)
	if err != nil {
		return nil, fmt.Errorf("kafka admin: %w", err)
	}
	if err := admin.EnsureTopic(ctx, cfg.Kafka.EventsTopic, cfg.Kafka.Partitions, cfg.Kafka.Replication); err != nil {
		admin.Close()
		return nil, fmt.Errorf("ensure topic %s: %w", cfg.Kafka.EventsTopic, err)
	}
	prod, err := producer.New(producer.Config{Brokers: cfg.Kafka.Brokers}, log)
	if err != nil {
		admin.Close()
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	checks.RegisterCheck("kafka", admin.Health)

	log.Info("publishing ledger events",
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.EventsTopic,
	)
	return &publisher{admin: admin, producer: prod}, nil
}

func parseTrustedProxies(raw []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(raw))
	for _, cidr := range raw {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func closeQuietly(log *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Error("close failed", "component", name, "error", err)
	}
}
