package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"scad/internal/events"
	"scad/internal/platform/middleware"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/httputil"
)

// Service is the feed the handler reads from.
type Service interface {
	List(ctx context.Context, viewer domain.Address, after int64, limit int) ([]events.Event, error)
}

type Handler struct {
	feed   Service
	logger *slog.Logger
}

func New(feed Service, logger *slog.Logger) *Handler {
	return &Handler{feed: feed, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/events", h.handleList)
}

// EventResponse flattens both event kinds into one wire shape.
type EventResponse struct {
	Sequence   int64          `json:"sequence"`
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Owner      domain.Address `json:"owner"`
	Identifier string         `json:"identifier,omitempty"`
	IsCompany  *bool          `json:"is_company,omitempty"`
	Reader     domain.Address `json:"reader,omitempty"`
	Granted    *bool          `json:"granted,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type ListResponse struct {
	Events    []EventResponse `json:"events"`
	NextAfter int64           `json:"next_after"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller := middleware.GetCaller(ctx)

	after, limit, err := parsePage(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid event feed query",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	list, err := h.feed.List(ctx, caller, after, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list events",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	res := ListResponse{Events: make([]EventResponse, 0, len(list)), NextAfter: after}
	for _, ev := range list {
		res.Events = append(res.Events, toResponse(ev))
		res.NextAfter = ev.Sequence
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func parsePage(r *http.Request) (after int64, limit int, err error) {
	q := r.URL.Query()
	if v := q.Get("after"); v != "" {
		after, err = strconv.ParseInt(v, 10, 64)
		if err != nil || after < 0 {
			return 0, 0, dErrors.New(dErrors.CodeBadRequest, "after must be a non-negative integer")
		}
	}
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer")
		}
	}
	return after, limit, nil
}

func toResponse(ev events.Event) EventResponse {
	out := EventResponse{
		Sequence: ev.Sequence,
		ID:       ev.ID.String(),
		Type:     ev.Type,
		Owner:    ev.Owner,
	}
	switch {
	case ev.Registered != nil:
		out.Identifier = ev.Registered.Identifier
		out.IsCompany = &ev.Registered.IsCompany
		out.OccurredAt = ev.Registered.OccurredAt
	case ev.ConsentChanged != nil:
		out.Reader = ev.ConsentChanged.Reader
		out.Granted = &ev.ConsentChanged.Granted
		out.OccurredAt = ev.ConsentChanged.OccurredAt
	}
	return out
}
