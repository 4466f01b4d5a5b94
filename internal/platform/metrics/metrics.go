package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP transport collectors.
type Metrics struct {
	Requests         *prometheus.CounterVec
	EndpointLatency  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New registers the HTTP collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scad_http_requests_total",
			Help: "Total number of HTTP requests, labeled by method, route and status",
		}, []string{"method", "route", "status"}),
		// - Latency per endpoint (histogram)
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scad_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "scad_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
	}
}

// ObserveRequest records one finished request. route is the matched pattern,
// never the raw path, so label cardinality stays bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, durationSeconds float64) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.EndpointLatency.WithLabelValues(method, route).Observe(durationSeconds)
}

func (m *Metrics) IncInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecInFlight() {
	m.RequestsInFlight.Dec()
}
