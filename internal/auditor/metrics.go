package auditor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the auditor.
type Metrics struct {
	Events *prometheus.CounterVec
}

// NewMetrics registers the auditor collectors on reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		Events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "scad_auditor_events_total",
			Help: "Total number of consumed ledger events, labeled by type and result",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) IncEvent(eventType, result string) {
	m.Events.WithLabelValues(eventType, result).Inc()
}
