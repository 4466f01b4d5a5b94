// Package auditor consumes published ledger events and records them in the
// audit log. Delivery is at least once, so redelivered events are recognised
// by their sequence and recorded only once per owner.
package auditor

import (
	"context"
	"fmt"
	"log/slog"

	"scad/internal/events"
	"scad/internal/platform/kafka/consumer"
	"scad/internal/platform/privacy"
	"scad/pkg/domain"
	"scad/pkg/platform/outbox"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Tracker Sink

// Tracker remembers the highest sequence recorded per owner.
type Tracker interface {
	Last(ctx context.Context, owner domain.Address) (int64, error)
	Advance(ctx context.Context, owner domain.Address, sequence int64) error
}

// Sink stores one audited event. An error leaves the message uncommitted.
type Sink interface {
	Record(ctx context.Context, ev events.Event) error
}

// Handler implements consumer.Handler for the ledger events topic.
type Handler struct {
	tracker Tracker
	sink    Sink
	metrics *Metrics
	logger  *slog.Logger
}

// NewHandler builds a Handler. metrics may be nil.
func NewHandler(tracker Tracker, sink Sink, m *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{tracker: tracker, sink: sink, metrics: m, logger: logger}
}

// Handle records msg unless it is malformed or already recorded. Malformed
// messages are committed so they cannot block the partition.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	entry, err := outbox.EntryFromHeaders(msg.Headers, msg.Value)
	if err != nil {
		h.malformed(ctx, msg, err)
		return nil
	}
	ev, err := events.Decode(entry)
	if err != nil {
		h.malformed(ctx, msg, err)
		return nil
	}
	if _, err := domain.ParseAddress(ev.Owner.String()); err != nil {
		h.malformed(ctx, msg, err)
		return nil
	}

	last, err := h.tracker.Last(ctx, ev.Owner)
	if err != nil {
		return fmt.Errorf("read audit position: %w", err)
	}
	if ev.Sequence <= last {
		h.logger.DebugContext(ctx, "skipping redelivered event",
			"event_id", ev.ID,
			"sequence", ev.Sequence,
			"last", last,
		)
		h.count(ev.Type, "duplicate")
		return nil
	}

	if err := h.sink.Record(ctx, ev); err != nil {
		h.logger.ErrorContext(ctx, "failed to record audit event",
			"event_id", ev.ID,
			"sequence", ev.Sequence,
			"error", err,
		)
		h.count(ev.Type, "failed")
		return fmt.Errorf("record audit event: %w", err)
	}
	if err := h.tracker.Advance(ctx, ev.Owner, ev.Sequence); err != nil {
		return fmt.Errorf("advance audit position: %w", err)
	}
	h.count(ev.Type, "recorded")
	return nil
}

func (h *Handler) malformed(ctx context.Context, msg *consumer.Message, err error) {
	h.logger.ErrorContext(ctx, "dropping malformed ledger message",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"error", err,
	)
	h.count("unknown", "malformed")
}

func (h *Handler) count(eventType, result string) {
	if h.metrics != nil {
		h.metrics.IncEvent(eventType, result)
	}
}

// LogSink writes audited events to a structured logger. Identifiers are hashed.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, ev events.Event) error {
	attrs := []any{
		"event_id", ev.ID,
		"sequence", ev.Sequence,
		"type", ev.Type,
		"owner", ev.Owner,
	}
	switch {
	case ev.Registered != nil:
		attrs = append(attrs,
			"is_company", ev.Registered.IsCompany,
			"identifier_hash", privacy.HashIdentifier(ev.Registered.Identifier),
			"occurred_at", ev.Registered.OccurredAt,
		)
	case ev.ConsentChanged != nil:
		attrs = append(attrs,
			"reader", ev.ConsentChanged.Reader,
			"granted", ev.ConsentChanged.Granted,
			"occurred_at", ev.ConsentChanged.OccurredAt,
		)
	}
	s.logger.InfoContext(ctx, "ledger event", attrs...)
	return nil
}
