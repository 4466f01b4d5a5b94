package events

import (
	"context"
	"log/slog"

	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/outbox"
	"scad/pkg/platform/validation"
)

// Lister is the read side of the outbox used by the feed.
type Lister interface {
	ListAfter(ctx context.Context, after int64, limit int) ([]*outbox.Entry, error)
}

// Feed serves the committed event log in sequence order.
type Feed struct {
	store  Lister
	logger *slog.Logger
}

func NewFeed(store Lister, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feed{store: store, logger: logger}
}

// List returns up to limit events with sequence greater than after, masked for viewer.
func (f *Feed) List(ctx context.Context, viewer domain.Address, after int64, limit int) ([]Event, error) {
	if after < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "after must not be negative")
	}
	entries, err := f.store.ListAfter(ctx, after, validation.ClampPageSize(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read event log")
	}

	out := make([]Event, 0, len(entries))
	for _, e := range entries {
		ev, err := Decode(e)
		if err != nil {
			f.logger.ErrorContext(ctx, "undecodable outbox entry",
				"sequence", e.Sequence,
				"event_type", e.EventType,
				"error", err,
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode event log")
		}
		out = append(out, ev.MaskedFor(viewer))
	}
	return out, nil
}
