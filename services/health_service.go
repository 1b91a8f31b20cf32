package services

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/section3-pro/compliance-backend/config"
	apperrors "github.com/section3-pro/compliance-backend/errors"
	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TimedOutError is recorded for a probe that misses the aggregation deadline.
const TimedOutError = "health check timed out"

// HealthService runs the registered dependency probes and reduces their results.
type HealthService struct {
	cfg     *config.Config
	probes  map[probe.Kind]probe.Probe
	order   []probe.Kind
	version string
	timeout time.Duration
	metrics *HealthMetrics
	log     *zap.SugaredLogger
}

func NewHealthService(cfg *config.Config, version string, probes ...probe.Probe) *HealthService {
	return NewHealthServiceWithRegistry(cfg, prometheus.DefaultRegisterer, version, probes...)
}

// NewHealthServiceWithRegistry registers the probe metrics on reg. Registering
// a probe kind twice keeps the last one.
func NewHealthServiceWithRegistry(cfg *config.Config, reg prometheus.Registerer, version string, probes ...probe.Probe) *HealthService {
	h := &HealthService{
		cfg:     cfg,
		probes:  make(map[probe.Kind]probe.Probe, len(probes)),
		version: version,
		timeout: cfg.Health.Timeout(),
		metrics: newHealthMetrics(reg),
		log:     logger.GetLogger(),
	}
	if h.timeout <= 0 {
		h.timeout = 10 * time.Second
	}

	for _, p := range probes {
		kind := p.Kind()
		if _, exists := h.probes[kind]; exists {
			h.log.Warnw("Probe registered twice, replacing", "component", kind)
		} else {
			h.order = append(h.order, kind)
		}
		h.probes[kind] = p
	}
	return h
}

// Components lists the registered probe kinds in registration order.
func (h *HealthService) Components() []probe.Kind {
	return append([]probe.Kind(nil), h.order...)
}

// CheckHealth runs every probe concurrently under one shared deadline. It
// never fails: a panic outside the probes yields an aggregate with status error.
func (h *HealthService) CheckHealth(ctx context.Context) (health types.AggregateHealth) {
	observedAt := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorw("Health aggregation panicked", "panic", r)
			health = types.AggregateHealth{
				OverallStatus: types.HealthStatusError,
				Services:      map[string]types.ProbeResult{},
				ObservedAt:    observedAt,
				Version:       h.version,
				ConfigurationSnapshot: types.ConfigurationSnapshot{
					Warnings: []string{},
					Errors:   []string{fmt.Sprintf("health aggregation failed: %v", r)},
				},
			}
			h.metrics.observeOverall(types.HealthStatusError)
		}
	}()

	results := h.runProbes(ctx, h.order)

	services := make(map[string]types.ProbeResult, len(results))
	for _, r := range results {
		services[r.Component] = r
	}

	warnings, errs := h.cfg.Review()
	if warnings == nil {
		warnings = []string{}
	}
	if errs == nil {
		errs = []string{}
	}

	health = types.AggregateHealth{
		OverallStatus: types.ReduceStatus(results),
		Services:      services,
		ObservedAt:    observedAt,
		Version:       h.version,
		ConfigurationSnapshot: types.ConfigurationSnapshot{
			Warnings: warnings,
			Errors:   errs,
		},
	}
	h.metrics.observeOverall(health.OverallStatus)

	if health.OverallStatus != types.HealthStatusHealthy {
		h.log.Infow("Health check completed", "status", health.OverallStatus, "components", len(services))
	}
	return health
}

// CheckComponent runs a single probe under the aggregation deadline.
func (h *HealthService) CheckComponent(ctx context.Context, kind probe.Kind) (types.ProbeResult, error) {
	if _, ok := h.probes[kind]; !ok {
		return types.ProbeResult{}, apperrors.NotFound("health component", kind)
	}
	return h.runProbes(ctx, []probe.Kind{kind})[0], nil
}

func (h *HealthService) runProbes(ctx context.Context, kinds []probe.Kind) []types.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make([]types.ProbeResult, len(kinds))
	var g errgroup.Group
	for i, kind := range kinds {
		p := h.probes[kind]
		g.Go(func() error {
			results[i] = h.runWithDeadline(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// runWithDeadline stops waiting for a probe once ctx is done. The probe
// goroutine is left to finish on its own; its result is discarded.
func (h *HealthService) runWithDeadline(ctx context.Context, p probe.Probe) types.ProbeResult {
	start := time.Now()
	done := make(chan types.ProbeResult, 1)
	go func() {
		done <- probe.Run(ctx, p, h.cfg)
	}()

	var result types.ProbeResult
	select {
	case result = <-done:
	case <-ctx.Done():
		result = types.ProbeResult{
			Component:  string(p.Kind()),
			Status:     types.ProbeStatusUnhealthy,
			Message:    "probe did not finish before the deadline",
			Error:      TimedOutError,
			ObservedAt: time.Now().UTC(),
		}.WithResponseTime(time.Since(start))
		h.log.Warnw("Probe timed out", "component", p.Kind(), "timeout", h.timeout)
	}

	h.metrics.observeProbe(result, time.Since(start))
	return result
}
