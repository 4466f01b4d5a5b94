package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"scad/internal/platform/middleware"
	registrymodels "scad/internal/registry/models"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the authorized record reads.
type Service interface {
	ViewOwnRecord(ctx context.Context, caller domain.Address) (*registrymodels.Record, error)
	ViewRecordOf(ctx context.Context, caller, target domain.Address) (*registrymodels.Record, error)
}

// Handler serves record reads that go through the authorization engine.
type Handler struct {
	access Service
	logger *slog.Logger
}

func New(access Service, logger *slog.Logger) *Handler {
	return &Handler{access: access, logger: logger}
}

// Register registers the record read routes with the chi router.
// /registry/me must be registered on the same router as /registry/{address}.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registry/me", h.handleViewOwn)
	r.Get("/registry/{address}", h.handleViewOf)
}

type RecordResponse struct {
	Owner        domain.Address `json:"owner"`
	Identifier   string         `json:"identifier"`
	Kind         string         `json:"kind"`
	IsCompany    bool           `json:"is_company"`
	RegisteredAt time.Time      `json:"registered_at"`
}

type OwnRecordResponse struct {
	Registered bool            `json:"registered"`
	Record     *RecordResponse `json:"record,omitempty"`
}

func toRecordResponse(rec *registrymodels.Record) *RecordResponse {
	if rec == nil {
		return nil
	}
	return &RecordResponse{
		Owner:        rec.Owner,
		Identifier:   rec.Identifier.String(),
		Kind:         rec.Kind().String(),
		IsCompany:    rec.IsCompany,
		RegisteredAt: rec.RegisteredAt,
	}
}

func (h *Handler) handleViewOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	rec, err := h.access.ViewOwnRecord(ctx, middleware.GetCaller(ctx))
	if err != nil {
		h.logFailure(ctx, "own record read failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OwnRecordResponse{
		Registered: rec != nil,
		Record:     toRecordResponse(rec),
	})
}

func (h *Handler) handleViewOf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	target, err := httputil.AddressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.access.ViewRecordOf(ctx, middleware.GetCaller(ctx), target)
	if err != nil {
		h.logFailure(ctx, "record read failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.InfoContext(ctx, msg, "request_id", requestID, "error", err)
	}
}
