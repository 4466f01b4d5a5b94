package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scad/internal/platform/middleware"
	"scad/pkg/domain"
	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/httputil"
	"scad/pkg/validation"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for consent operations.
type Service interface {
	SetConsent(ctx context.Context, owner, reader domain.Address, granted bool) error
	HasConsent(ctx context.Context, owner, reader domain.Address) (bool, error)
	ListReaders(ctx context.Context, owner domain.Address) ([]domain.Address, error)
}

// Handler handles consent endpoints.
type Handler struct {
	consent Service
	logger  *slog.Logger
}

func New(consent Service, logger *slog.Logger) *Handler {
	return &Handler{consent: consent, logger: logger}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/consents/{reader}", h.handleSetConsent)
	r.Get("/consents", h.handleListReaders)
	r.Get("/consents/{owner}/{reader}", h.handleHasConsent)
}

// SetConsentRequest is the body of PUT /consents/{reader}.
type SetConsentRequest struct {
	Granted *bool `json:"granted" validate:"required"`
}

func (r *SetConsentRequest) Validate() error {
	return validation.Validate(r)
}

type SetConsentResponse struct {
	Owner   domain.Address `json:"owner"`
	Reader  domain.Address `json:"reader"`
	Granted bool           `json:"granted"`
}

type HasConsentResponse struct {
	Owner   domain.Address `json:"owner"`
	Reader  domain.Address `json:"reader"`
	Granted bool           `json:"granted"`
}

type ListReadersResponse struct {
	Owner   domain.Address   `json:"owner"`
	Readers []domain.Address `json:"readers"`
}

func (h *Handler) handleSetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	reader, err := httputil.AddressParam(r, "reader")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetConsentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.consent.SetConsent(ctx, caller, reader, *req.Granted); err != nil {
		h.logger.WarnContext(ctx, "failed to set consent",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SetConsentResponse{Owner: caller, Reader: reader, Granted: *req.Granted})
}

func (h *Handler) handleHasConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := httputil.AddressParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reader, err := httputil.AddressParam(r, "reader")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	granted, err := h.consent.HasConsent(ctx, owner, reader)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check consent",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HasConsentResponse{Owner: owner, Reader: reader, Granted: granted})
}

func (h *Handler) handleListReaders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	readers, err := h.consent.ListReaders(ctx, caller)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list readers",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListReadersResponse{Owner: caller, Readers: readers})
}

func (h *Handler) requireCaller(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	ctx := r.Context()
	caller := middleware.GetCaller(ctx)
	if caller.IsZero() {
		h.logger.ErrorContext(ctx, "caller missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return caller, true
}
