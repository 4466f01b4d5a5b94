package e2e

import (
	"io"
	"net/http/httptest"
	"time"

	accessadapters "scad/internal/access/adapters"
	accesshandler "scad/internal/access/handler"
	accessservice "scad/internal/access/service"
	consenthandler "scad/internal/consent/handler"
	consentservice "scad/internal/consent/service"
	consentstore "scad/internal/consent/store"
	"scad/internal/events"
	eventshandler "scad/internal/events/handler"
	jwttoken "scad/internal/jwt_token"
	"scad/internal/platform/health"
	"scad/internal/platform/logger"
	registryhandler "scad/internal/registry/handler"
	registryservice "scad/internal/registry/service"
	registrystore "scad/internal/registry/store"
	httptransport "scad/internal/transport/http"
	outboxmemory "scad/pkg/platform/outbox/store/memory"
	platformsync "scad/pkg/platform/sync"
)

const txTimeout = 5 * time.Second

// startLedger runs the full router over in-memory stores, the same wiring
// the server uses when DATABASE_URL is unset.
func startLedger(tokens *jwttoken.JWTService) *httptest.Server {
	log := logger.NewWithWriter(io.Discard, "error")

	mu := platformsync.NewShardedMutex(0)
	feed := outboxmemory.New()
	registry := registrystore.NewInMemoryStore()
	consents := consentstore.NewInMemoryStore()

	registrySvc := registryservice.New(registry, registryservice.NewShardedTx(mu, registry, feed, txTimeout))
	consentSvc := consentservice.New(consents, consentservice.NewShardedTx(mu, consents, feed, txTimeout))
	accessSvc := accessservice.New(
		accessadapters.NewRegistryAdapter(registrySvc),
		accessadapters.NewConsentAdapter(consentSvc),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:    log,
		Validator: jwttoken.NewJWTServiceAdapter(tokens),
		Public:    []httptransport.Routes{health.New("test")},
		Protected: []httptransport.Routes{
			registryhandler.New(registrySvc, log),
			accesshandler.New(accessSvc, log),
			consenthandler.New(consentSvc, log),
			eventshandler.New(events.NewFeed(feed, log), log),
		},
	})
	return httptest.NewServer(router)
}
