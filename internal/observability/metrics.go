package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	generationTotal *prometheus.CounterVec
	publishTotal    *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
}

// NewMetrics creates a new metrics set
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		generationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corridor_generations_total",
			Help: "Total generator invocations by metric family.",
		}, []string{"kind"}),
		publishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corridor_snapshot_publish_total",
			Help: "Total snapshot publish attempts by sink and result.",
		}, []string{"sink", "result"}),
		publishDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "corridor_snapshot_publish_duration_seconds",
			Help:    "Histogram of snapshot publish durations by sink.",
			Buckets: prometheus.DefBuckets,
		}, []string{"sink"}),
	}

	reg.MustRegister(
		m.generationTotal,
		m.publishTotal,
		m.publishDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Generated counts one generator run
func (m *Metrics) Generated(kind string) {
	m.generationTotal.WithLabelValues(kind).Inc()
}

// Published records the outcome of one publish attempt
func (m *Metrics) Published(sink string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.publishTotal.WithLabelValues(sink, result).Inc()
	m.publishDuration.WithLabelValues(sink).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
