package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scad/internal/platform/middleware"
)

// Routes is implemented by every feature handler.
type Routes interface {
	Register(r chi.Router)
}

// Config carries the router dependencies. Public routes are mounted without
// authentication; Protected routes sit behind RequireAuth.
type Config struct {
	Logger         *slog.Logger
	Validator      middleware.JWTValidator
	Observer       middleware.RequestObserver
	Gatherer       prometheus.Gatherer
	TrustedProxies []netip.Prefix
	RequestTimeout time.Duration
	Public         []Routes
	Protected      []Routes
}

const defaultRequestTimeout = 30 * time.Second

// NewRouter wires all endpoints with middleware.
func NewRouter(cfg Config) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata(cfg.TrustedProxies))
	if cfg.Observer != nil {
		r.Use(middleware.Metrics(cfg.Observer))
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)

	for _, h := range cfg.Public {
		h.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		for _, h := range cfg.Protected {
			h.Register(r)
		}
	})

	return r
}
