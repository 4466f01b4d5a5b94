package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registry operations.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	RegistrationRejected *prometheus.CounterVec
	RegisterLatency      prometheus.Histogram
	CacheLookups         *prometheus.CounterVec
	CacheLatency         prometheus.Histogram
}

// New registers the registry collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_registrations_total",
			Help: "Total number of committed registrations, labeled by kind",
		}, []string{"kind"}),
		RegistrationRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_registrations_rejected_total",
			Help: "Total number of rejected registrations, labeled by reason",
		}, []string{"reason"}),
		RegisterLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scad_registration_latency_seconds",
			Help:    "Latency of registration writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_registry_cache_lookups_total",
			Help: "Registry cache lookups, labeled by result (hit, miss, error)",
		}, []string{"result"}),
		CacheLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scad_registry_cache_latency_seconds",
			Help:    "Latency of registry cache reads in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

func (m *Metrics) IncRegistered(kind string) {
	m.Registrations.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncRejected(reason string) {
	m.RegistrationRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRegisterLatency(seconds float64) {
	m.RegisterLatency.Observe(seconds)
}

func (m *Metrics) ObserveCacheLookup(result string, seconds float64) {
	m.CacheLookups.WithLabelValues(result).Inc()
	m.CacheLatency.Observe(seconds)
}
