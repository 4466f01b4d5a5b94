package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for consent operations.
type Metrics struct {
	ConsentChanges  *prometheus.CounterVec
	ConsentRejected *prometheus.CounterVec
	ConsentChecks   *prometheus.CounterVec
	SetLatency      prometheus.Histogram
}

// New registers the consent collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ConsentChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_consent_changes_total",
			Help: "Total number of committed consent writes, labeled by granted",
		}, []string{"granted"}),
		ConsentRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_consent_rejected_total",
			Help: "Total number of rejected consent writes, labeled by reason",
		}, []string{"reason"}),
		ConsentChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_consent_checks_total",
			Help: "Total number of consent lookups, labeled by result",
		}, []string{"result"}),
		SetLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scad_consent_set_latency_seconds",
			Help:    "Latency of consent writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncChanged(granted bool) {
	m.ConsentChanges.WithLabelValues(strconv.FormatBool(granted)).Inc()
}

func (m *Metrics) IncRejected(reason string) {
	m.ConsentRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncCheck(granted bool) {
	result := "absent"
	if granted {
		result = "granted"
	}
	m.ConsentChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSetLatency(seconds float64) {
	m.SetLatency.Observe(seconds)
}
