package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric instruments
type Metrics struct {
	RunsTotal           *prometheus.CounterVec
	RunDurationSeconds  prometheus.Histogram
	ActiveRuns          prometheus.Gauge
	StepFailuresTotal   *prometheus.CounterVec
	TeardownTotal       *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns all metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_runs_total",
			Help: "Total number of provisioning runs",
		}, []string{"status"}),

		RunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "provisioner_run_duration_seconds",
			Help:    "Duration of provisioning runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		ActiveRuns: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "provisioner_active_runs",
			Help: "Number of currently executing provisioning runs",
		}),

		StepFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_step_failures_total",
			Help: "Total workflow step failures",
		}, []string{"step"}),

		TeardownTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_teardown_total",
			Help: "Total teardown operations",
		}, []string{"status"}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provisioner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
		}, []string{"method", "path"}),
	}
}

// RecordRunStart increments the active runs gauge
func (m *Metrics) RecordRunStart() {
	m.ActiveRuns.Inc()
}

// RecordRunEnd records run completion
func (m *Metrics) RecordRunEnd(status string, duration float64) {
	m.ActiveRuns.Dec()
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(duration)
}

// RecordStepFailure records a failed workflow step
func (m *Metrics) RecordStepFailure(step string) {
	m.StepFailuresTotal.WithLabelValues(step).Inc()
}

// RecordTeardown records a teardown operation
func (m *Metrics) RecordTeardown(status string) {
	m.TeardownTotal.WithLabelValues(status).Inc()
}
