package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scad/internal/identifier"
	"scad/internal/platform/middleware"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the registry operations exposed over HTTP.
type Service interface {
	RegisterPerson(ctx context.Context, owner domain.Address, candidate string) error
	RegisterOrganization(ctx context.Context, owner domain.Address, candidate string) error
	IsRegistered(ctx context.Context, owner domain.Address) (bool, error)
}

// Handler handles registration endpoints.
type Handler struct {
	registry Service
	logger   *slog.Logger
}

func New(registry Service, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// Register registers the registry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/person", h.handleRegister(identifier.KindPerson))
	r.Post("/registry/organization", h.handleRegister(identifier.KindOrganization))
	r.Get("/registry/{address}/status", h.handleStatus)
}

func (h *Handler) handleRegister(kind identifier.Kind) http.HandlerFunc {
	register := h.registry.RegisterPerson
	if kind == identifier.KindOrganization {
		register = h.registry.RegisterOrganization
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestID(ctx)
		caller := middleware.GetCaller(ctx)

		if caller.IsZero() {
			h.logger.ErrorContext(ctx, "caller missing from context despite auth middleware",
				"request_id", requestID,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
			return
		}

		req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}

		if err := register(ctx, caller, req.Identifier); err != nil {
			h.logFailure(ctx, "registration rejected", requestID, err)
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{
			Owner:     caller,
			Kind:      kind.String(),
			IsCompany: kind.IsCompany(),
		})
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	target, err := httputil.AddressParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	registered, err := h.registry.IsRegistered(ctx, target)
	if err != nil {
		h.logFailure(ctx, "registration status lookup failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Address: target, Registered: registered})
}

// logFailure logs caller mistakes at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
}
