package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"scad/internal/platform/kafka/producer"
	"scad/pkg/platform/outbox"
	"scad/pkg/platform/outbox/metrics"
)

//go:generate mockgen -source=worker.go -destination=mocks/mocks.go -package=mocks Publisher

// Publisher is the slice of the Kafka producer the worker needs.
type Publisher interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Worker polls the outbox and publishes ledger events to Kafka in sequence order.
type Worker struct {
	store        outbox.Store
	publisher    Publisher
	topic        string
	batchSize    int
	pollInterval time.Duration
	retention    time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Worker.
type Option func(*Worker)

// WithTopic sets the Kafka topic for publishing.
func WithTopic(topic string) Option {
	return func(w *Worker) {
		w.topic = topic
	}
}

// WithBatchSize sets the maximum number of entries to fetch per poll.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithPollInterval sets the interval between polls.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithRetention enables deletion of published entries older than d.
// Zero keeps every entry forever.
func WithRetention(d time.Duration) Option {
	return func(w *Worker) {
		w.retention = d
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// DefaultTopic receives every ledger event unless WithTopic overrides it.
const DefaultTopic = "scad.ledger.events"

// New creates a new outbox worker.
func New(store outbox.Store, publisher Publisher, opts ...Option) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		store:        store,
		publisher:    publisher,
		topic:        DefaultTopic,
		batchSize:    100,
		pollInterval: 100 * time.Millisecond,
		logger:       slog.New(slog.DiscardHandler),
		ctx:          ctx,
		cancel:       cancel,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start begins the polling loop in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Run starts the worker and blocks until ctx is done, then drains and stops.
func (w *Worker) Run(ctx context.Context) error {
	w.Start()
	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return w.Stop(stopCtx)
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.drain()
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll fetches and publishes one batch.
func (w *Worker) poll() {
	start := time.Now()

	entries, err := w.store.FetchUnprocessed(w.ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to fetch outbox entries", "error", err)
		if w.metrics != nil {
			w.metrics.IncPublishFailures()
		}
		return
	}

	if len(entries) > 0 {
		if w.metrics != nil {
			w.metrics.ObserveBatchSize(len(entries))
		}
		w.publishBatch(w.ctx, entries)
	}

	w.cleanup()
	if err := w.UpdateMetrics(w.ctx); err != nil {
		w.logger.Warn("failed to refresh outbox depth", "error", err)
	}

	if w.metrics != nil {
		w.metrics.ObservePollDuration(time.Since(start).Seconds())
	}
}

// publishBatch publishes entries in order and stops at the first failure so a
// later event never reaches Kafka before an earlier one. Returns the count published.
func (w *Worker) publishBatch(ctx context.Context, entries []*outbox.Entry) int {
	published := 0
	for _, entry := range entries {
		if err := w.publishEntry(ctx, entry); err != nil {
			w.logger.Error("failed to publish outbox entry",
				"id", entry.ID,
				"sequence", entry.Sequence,
				"event_type", entry.EventType,
				"error", err,
			)
			if w.metrics != nil {
				w.metrics.IncPublishFailures()
			}
			return published
		}

		if err := w.store.MarkProcessed(ctx, entry.ID, time.Now()); err != nil {
			// Already on Kafka; the re-publish on the next poll is skipped by consumers on per-owner sequence.
			w.logger.Error("failed to mark entry as processed",
				"id", entry.ID,
				"error", err,
			)
			return published
		}

		published++
		if w.metrics != nil {
			w.metrics.IncPublished()
		}
	}
	return published
}

func (w *Worker) publishEntry(ctx context.Context, entry *outbox.Entry) error {
	start := time.Now()

	msg := &producer.Message{
		Topic: w.topic,
		// One owner's events share a partition and keep their order.
		Key:     []byte(entry.AggregateID),
		Value:   entry.Payload,
		Headers: outbox.Headers(entry),
	}

	if err := w.publisher.Produce(ctx, msg); err != nil {
		return err
	}

	if w.metrics != nil {
		w.metrics.ObservePublishDuration(time.Since(start).Seconds())
	}
	return nil
}

func (w *Worker) cleanup() {
	if w.retention <= 0 {
		return
	}
	deleted, err := w.store.DeleteProcessedBefore(w.ctx, time.Now().Add(-w.retention))
	if err != nil {
		w.logger.Warn("failed to delete published outbox entries", "error", err)
		return
	}
	if deleted > 0 {
		w.logger.Debug("deleted published outbox entries", "count", deleted)
	}
}

// drain publishes what is left during shutdown.
func (w *Worker) drain() {
	w.logger.Info("draining outbox worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
		if err != nil {
			w.logger.Error("failed to fetch entries during drain", "error", err)
			return
		}
		if len(entries) == 0 {
			return
		}
		if w.publishBatch(ctx, entries) < len(entries) {
			return
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateMetrics refreshes the pending depth gauge.
func (w *Worker) UpdateMetrics(ctx context.Context) error {
	if w.metrics == nil {
		return nil
	}

	count, err := w.store.CountPending(ctx)
	if err != nil {
		return err
	}

	w.metrics.SetPendingDepth(count)
	return nil
}
