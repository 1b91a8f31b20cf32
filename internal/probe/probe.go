// Package probe implements one bounded check per external dependency. A probe
// never returns an error: every outcome, including misconfiguration and panics,
// is reported as a types.ProbeResult.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/types"
)

// Kind names the dependency a probe checks. The set is closed.
type Kind string

const (
	KindDatabase Kind = "database"
	KindAI       Kind = "ai"
	KindEmail    Kind = "email"
	KindStorage  Kind = "storage"
	KindSecurity Kind = "security"
	KindCache    Kind = "cache"
)

// Kinds returns every known kind in reporting order.
func Kinds() []Kind {
	return []Kind{KindDatabase, KindAI, KindEmail, KindStorage, KindSecurity, KindCache}
}

// ParseKind maps a component name onto its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Probe checks one dependency. Implementations read only the config snapshot
// they are given and hold no mutable state between calls.
type Probe interface {
	Kind() Kind
	Check(ctx context.Context, cfg *config.Config) types.ProbeResult
}

// Run executes p, converting a panic into an unhealthy result. The component
// name and observation time are always filled in.
func Run(ctx context.Context, p Probe, cfg *config.Config) (result types.ProbeResult) {
	kind := p.Kind()
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().Errorw("Probe panicked", "component", kind, "panic", r)
			result = types.ProbeResult{
				Status:  types.ProbeStatusUnhealthy,
				Message: "probe failed unexpectedly",
				Error:   fmt.Sprint(r),
			}
		}
		result.Component = string(kind)
		if result.ObservedAt.IsZero() {
			result.ObservedAt = time.Now().UTC()
		}
	}()

	return p.Check(ctx, cfg)
}

// classify maps a successful call's latency onto healthy or degraded.
func classify(elapsed, budget time.Duration) types.ProbeStatus {
	if elapsed > budget {
		return types.ProbeStatusDegraded
	}
	return types.ProbeStatusHealthy
}

// latencyResult builds the result of a successful live call.
func latencyResult(elapsed, budget time.Duration, okMessage string) types.ProbeResult {
	status := classify(elapsed, budget)
	message := okMessage
	if status == types.ProbeStatusDegraded {
		message = fmt.Sprintf("response time %dms exceeds %dms budget", elapsed.Milliseconds(), budget.Milliseconds())
	}
	return types.ProbeResult{Status: status, Message: message}.WithResponseTime(elapsed)
}

func unhealthy(message string, err error) types.ProbeResult {
	r := types.ProbeResult{Status: types.ProbeStatusUnhealthy, Message: message}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func notConfigured(message string) types.ProbeResult {
	return types.ProbeResult{Status: types.ProbeStatusNotConfigured, Message: message}
}
