package probe

import (
	"context"

	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/types"
)

// Pinger runs the cheapest live query a data store supports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseProbe checks the primary data store. A direct Postgres connection
// takes precedence over the Supabase REST endpoint.
type DatabaseProbe struct {
	Postgres Pinger
	Supabase Pinger
	Clock    Clock
}

// NewDatabaseProbe creates a DatabaseProbe. Either pinger may be nil when the
// matching backend is not configured.
func NewDatabaseProbe(postgres, supabase Pinger) *DatabaseProbe {
	return &DatabaseProbe{Postgres: postgres, Supabase: supabase}
}

func (p *DatabaseProbe) Kind() Kind { return KindDatabase }

func (p *DatabaseProbe) Check(ctx context.Context, cfg *config.Config) types.ProbeResult {
	var (
		pinger  Pinger
		backend string
	)
	switch {
	case cfg.Database.URL != "":
		pinger, backend = p.Postgres, "postgres"
	case cfg.SupabaseConfigured():
		pinger, backend = p.Supabase, "supabase"
	default:
		return types.ProbeResult{
			Status:  types.ProbeStatusDemoMode,
			Message: "No database configured; serving sample data",
		}
	}
	if pinger == nil {
		return unhealthy(backend+" client is not initialized", nil)
	}

	clock := clockOrReal(p.Clock)
	start := clock.Now()
	if err := pinger.Ping(ctx); err != nil {
		return unhealthy("database query failed", err).WithResponseTime(clock.Since(start))
	}
	return latencyResult(clock.Since(start), cfg.Health.DatabaseBudget(), "database connection successful ("+backend+")")
}
