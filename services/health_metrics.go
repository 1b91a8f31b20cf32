package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/section3-pro/compliance-backend/types"
)

var probeStatuses = []types.ProbeStatus{
	types.ProbeStatusHealthy,
	types.ProbeStatusDegraded,
	types.ProbeStatusUnhealthy,
	types.ProbeStatusNotConfigured,
	types.ProbeStatusDemoMode,
	types.ProbeStatusConfigured,
	types.ProbeStatusError,
}

// HealthMetrics records probe latency and the latest status of each component.
type HealthMetrics struct {
	duration *prometheus.HistogramVec
	status   *prometheus.GaugeVec
	overall  *prometheus.GaugeVec
}

func newHealthMetrics(reg prometheus.Registerer) *HealthMetrics {
	m := &HealthMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "section3_probe_duration_seconds",
			Help:    "Time taken by a dependency probe",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		}, []string{"component"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "section3_probe_status",
			Help: "Latest status of a dependency probe (1 for the current status, 0 otherwise)",
		}, []string{"component", "status"}),
		overall: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "section3_health_overall_status",
			Help: "Latest overall health status (1 for the current status, 0 otherwise)",
		}, []string{"status"}),
	}

	reg.MustRegister(m.duration)
	reg.MustRegister(m.status)
	reg.MustRegister(m.overall)
	return m
}

func (m *HealthMetrics) observeProbe(result types.ProbeResult, elapsed time.Duration) {
	m.duration.WithLabelValues(result.Component).Observe(elapsed.Seconds())
	for _, s := range probeStatuses {
		v := 0.0
		if s == result.Status {
			v = 1
		}
		m.status.WithLabelValues(result.Component, string(s)).Set(v)
	}
}

func (m *HealthMetrics) observeOverall(status types.HealthStatus) {
	for _, s := range []types.HealthStatus{
		types.HealthStatusHealthy,
		types.HealthStatusDegraded,
		types.HealthStatusUnhealthy,
		types.HealthStatusError,
	} {
		v := 0.0
		if s == status {
			v = 1
		}
		m.overall.WithLabelValues(string(s)).Set(v)
	}
}
