package deliberate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics for deliberation
// sessions in production environments.
//
// Metrics exposed (all namespaced with "consensus_"):
//
//  1. inflight_calls (gauge): completion calls currently in flight.
//  2. call_duration_ms (histogram): completion call duration, labeled by
//     stage, agent, and status (ok/failed).
//  3. calls_total (counter): completion calls, labeled by stage, agent,
//     and status.
//  4. sessions_total (counter): finished sessions, labeled by mode and
//     terminal status (done/failed).
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := deliberate.NewPrometheusMetrics(registry)
//	sess, _ := deliberate.NewSession(members, mode,
//	    deliberate.WithMetrics(metrics))
//
//	// Expose via HTTP for Prometheus scraping:
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
//
// All methods are safe on a nil receiver, so callers never need to guard.
type PrometheusMetrics struct {
	inflightCalls prometheus.Gauge
	callDuration  *prometheus.HistogramVec
	calls         *prometheus.CounterVec
	sessions      *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewPrometheusMetrics creates and registers all deliberation metrics with
// the provided registry (prometheus.DefaultRegisterer when nil).
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)
	pm := &PrometheusMetrics{registry: registry}

	pm.inflightCalls = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "consensus",
		Name:      "inflight_calls",
		Help:      "Number of completion calls currently in flight.",
	})

	pm.callDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "consensus",
		Name:      "call_duration_ms",
		Help:      "Completion call duration in milliseconds.",
		Buckets:   []float64{50, 100, 500, 1000, 5000, 10000, 30000, 60000, 120000},
	}, []string{"stage", "agent", "status"})

	pm.calls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consensus",
		Name:      "calls_total",
		Help:      "Total completion calls by stage, agent, and outcome.",
	}, []string{"stage", "agent", "status"})

	pm.sessions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consensus",
		Name:      "sessions_total",
		Help:      "Total finished sessions by mode and terminal status.",
	}, []string{"mode", "status"})

	return pm
}

// CallStarted records a completion call entering flight.
func (pm *PrometheusMetrics) CallStarted() {
	if pm == nil {
		return
	}
	pm.inflightCalls.Inc()
}

// CallFinished records a completed (or failed) completion call.
func (pm *PrometheusMetrics) CallFinished(stage string, agent ID, status string, d time.Duration) {
	if pm == nil {
		return
	}
	pm.inflightCalls.Dec()
	pm.callDuration.WithLabelValues(stage, string(agent), status).
		Observe(float64(d.Milliseconds()))
	pm.calls.WithLabelValues(stage, string(agent), status).Inc()
}

// SessionFinished records a session reaching a terminal state.
func (pm *PrometheusMetrics) SessionFinished(mode Mode, state State) {
	if pm == nil {
		return
	}
	pm.sessions.WithLabelValues(string(mode), string(state)).Inc()
}
