package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_runs_total",
			Help: "Total number of provisioning runs",
		}, []string{"status"}),

		RunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "provisioner_run_duration_seconds",
			Help:    "Duration of provisioning runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		ActiveRuns: f.NewGauge(prometheus.GaugeOpts{
			Name: "provisioner_active_runs",
			Help: "Number of currently executing provisioning runs",
		}),

		StepFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_step_failures_total",
			Help: "Total workflow step failures",
		}, []string{"step"}),

		TeardownTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_teardown_total",
			Help: "Total teardown operations",
		}, []string{"status"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioner_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provisioner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
		}, []string{"method", "path"}),
	}
}

func TestNewMetricsFields(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newTestMetrics(reg)

	assert.NotNil(t, m.RunsTotal)
	assert.NotNil(t, m.RunDurationSeconds)
	assert.NotNil(t, m.ActiveRuns)
	assert.NotNil(t, m.StepFailuresTotal)
	assert.NotNil(t, m.TeardownTotal)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
}

func TestRecordRunLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newTestMetrics(reg)

	// Should not panic
	m.RecordRunStart()
	m.RecordRunEnd("success", 12.5)
	m.RecordRunEnd("partial_failure", 4.0)
}

func TestRecordStepFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newTestMetrics(reg)

	// Should not panic
	m.RecordStepFailure("notification_group")
	m.RecordStepFailure("alert_rules")
}

func TestRecordTeardown(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newTestMetrics(reg)

	// Should not panic
	m.RecordTeardown("success")
	m.RecordTeardown("failed")
}
