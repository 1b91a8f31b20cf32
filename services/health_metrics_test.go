package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	require.Failf(t, "metric family not found", "%s", name)
	return nil
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestHealthMetrics_ProbeStatusIsOneHot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newHealthMetrics(reg)

	m.observeProbe(types.ProbeResult{Component: "database", Status: types.ProbeStatusHealthy}, 20*time.Millisecond)
	m.observeProbe(types.ProbeResult{Component: "database", Status: types.ProbeStatusDegraded}, 1500*time.Millisecond)

	status := gather(t, reg, "section3_probe_status")
	assert.Equal(t, dto.MetricType_GAUGE, status.GetType())
	assert.Len(t, status.GetMetric(), len(probeStatuses))

	for _, metric := range status.GetMetric() {
		l := labels(metric)
		assert.Equal(t, "database", l["component"])
		if l["status"] == string(types.ProbeStatusDegraded) {
			assert.Equal(t, 1.0, metric.GetGauge().GetValue())
		} else {
			assert.Equal(t, 0.0, metric.GetGauge().GetValue(), l["status"])
		}
	}

	duration := gather(t, reg, "section3_probe_duration_seconds")
	require.Len(t, duration.GetMetric(), 1)
	hist := duration.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.InDelta(t, 1.52, hist.GetSampleSum(), 0.001)
}

func TestHealthMetrics_Overall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newHealthMetrics(reg)

	m.observeOverall(types.HealthStatusUnhealthy)

	overall := gather(t, reg, "section3_health_overall_status")
	assert.Len(t, overall.GetMetric(), 4)
	for _, metric := range overall.GetMetric() {
		want := 0.0
		if labels(metric)["status"] == string(types.HealthStatusUnhealthy) {
			want = 1
		}
		assert.Equal(t, want, metric.GetGauge().GetValue())
	}
}
