package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"scad/internal/access/models"
)

// Metrics holds Prometheus collectors for authorization decisions.
type Metrics struct {
	Decisions       *prometheus.CounterVec
	DecisionLatency prometheus.Histogram
	RecordLookups   *prometheus.CounterVec
}

// New registers the access collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_access_decisions_total",
			Help: "Total number of authorization decisions, labeled by decision and path",
		}, []string{"decision", "path"}),
		DecisionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scad_access_decision_latency_seconds",
			Help:    "Latency of authorization decisions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		RecordLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_access_record_lookups_total",
			Help: "Total number of authorized record lookups, labeled by result",
		}, []string{"result"}),
	}
}

// path is "self" when caller == owner and "consent" otherwise.
func (m *Metrics) IncDecision(d models.Decision, path string) {
	m.Decisions.WithLabelValues(d.String(), path).Inc()
}

func (m *Metrics) ObserveDecisionLatency(seconds float64) {
	m.DecisionLatency.Observe(seconds)
}

func (m *Metrics) IncRecordLookup(found bool) {
	result := "absent"
	if found {
		result = "found"
	}
	m.RecordLookups.WithLabelValues(result).Inc()
}
