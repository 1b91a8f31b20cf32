package types

import "time"

// ProbeStatus is the outcome of a single dependency probe.
type ProbeStatus string

const (
	ProbeStatusHealthy       ProbeStatus = "healthy"
	ProbeStatusDegraded      ProbeStatus = "degraded"
	ProbeStatusUnhealthy     ProbeStatus = "unhealthy"
	ProbeStatusNotConfigured ProbeStatus = "not_configured"
	ProbeStatusDemoMode      ProbeStatus = "demo_mode"
	ProbeStatusConfigured    ProbeStatus = "configured"
	ProbeStatusError         ProbeStatus = "error"
)

// HealthStatus is the overall verdict of an aggregation.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusError     HealthStatus = "error"
)

// ProbeResult is produced fresh by every probe invocation and is never mutated afterwards.
type ProbeResult struct {
	Component      string      `json:"component"`
	Status         ProbeStatus `json:"status"`
	ResponseTimeMs *int64      `json:"responseTimeMs,omitempty"`
	Message        string      `json:"message,omitempty"`
	Error          string      `json:"error,omitempty"`
	ObservedAt     time.Time   `json:"observedAt"`
}

// WithResponseTime returns a copy of r carrying the elapsed time in milliseconds.
func (r ProbeResult) WithResponseTime(d time.Duration) ProbeResult {
	ms := d.Milliseconds()
	r.ResponseTimeMs = &ms
	return r
}

// ConfigurationSnapshot lists configuration problems found while aggregating.
type ConfigurationSnapshot struct {
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// AggregateHealth is the response of the service health aggregator.
type AggregateHealth struct {
	OverallStatus         HealthStatus           `json:"overallStatus"`
	Services              map[string]ProbeResult `json:"services"`
	ObservedAt            time.Time              `json:"observedAt"`
	Version               string                 `json:"version,omitempty"`
	ConfigurationSnapshot ConfigurationSnapshot  `json:"configurationSnapshot"`
}

// ReduceStatus folds probe results into one overall status. Any unhealthy result wins;
// otherwise degraded, not_configured or demo_mode yield degraded; everything else is healthy.
// The result does not depend on the order of results.
//
// configured and error do not affect the overall status. The built-in probes never report
// error (a panicking probe is unhealthy), so an error result can only come from a Probe
// implementation outside this module, and the per-component endpoint still answers 500
// for it.
func ReduceStatus(results []ProbeResult) HealthStatus {
	seen := make(map[ProbeStatus]struct{}, len(results))
	for _, r := range results {
		seen[r.Status] = struct{}{}
	}

	if _, ok := seen[ProbeStatusUnhealthy]; ok {
		return HealthStatusUnhealthy
	}
	for _, s := range []ProbeStatus{ProbeStatusDegraded, ProbeStatusNotConfigured, ProbeStatusDemoMode} {
		if _, ok := seen[s]; ok {
			return HealthStatusDegraded
		}
	}
	return HealthStatusHealthy
}

// IsOperable reports whether the status still allows serving traffic.
func (s HealthStatus) IsOperable() bool {
	return s == HealthStatusHealthy || s == HealthStatusDegraded
}

// ComponentHealthResponse is a single probe result as returned by the
// per-component health endpoints.
type ComponentHealthResponse struct {
	ProbeResult
	Warning string `json:"warning,omitempty"`
}
