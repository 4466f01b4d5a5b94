// Package main runs the ledger auditor: it consumes the events topic and
// writes every committed registration and consent change to the audit log.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"scad/internal/auditor"
	"scad/internal/platform/config"
	"scad/internal/platform/health"
	"scad/internal/platform/kafka/consumer"
	"scad/internal/platform/logger"
	"scad/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scad-auditor:", err)
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
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	checks := health.New(cfg.Environment)

	var tracker auditor.Tracker = auditor.NewMemoryTracker()
	if cfg.Redis.URL != "" {
		rc, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close() //nolint:errcheck // shutdown path
		checks.RegisterCheck("redis", rc.Health)
		prometheus.MustRegister(rc.Collector("scad_auditor"))
		tracker = auditor.NewRedisTracker(rc.Client)
	} else {
		log.Warn("REDIS_URL not set, audit positions are kept in memory")
	}

	handler := auditor.NewHandler(tracker, auditor.NewLogSink(log), auditor.NewMetrics(prometheus.DefaultRegisterer), log)
	c, err := consumer.New(consumer.Config{
		Brokers:   cfg.Kafka.Brokers,
		GroupID:   cfg.Kafka.ConsumerGroup,
		Topics:    []string{cfg.Kafka.EventsTopic},
		FromStart: true,
	}, handler, log)
	if err != nil {
		return err
	}
	checks.RegisterCheck("kafka", c.Health)

	r := chi.NewRouter()
	checks.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              cfg.AuditorAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting auditor",
		"topic", cfg.Kafka.EventsTopic,
		"group", cfg.Kafka.ConsumerGroup,
		"addr", cfg.AuditorAddr,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Run(gctx) })
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("auditor stopped")
	return nil
}
