package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/section3-pro/compliance-backend/store"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of pgxpool.Pool the store needs. pgxmock satisfies it.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure pgKPIStore implements store.KPIStore.
var _ store.KPIStore = (*pgKPIStore)(nil)

type pgKPIStore struct {
	db           DBTX
	queryTimeout time.Duration
}

// NewPgKPIStore creates a new PostgreSQL KPI store.
func NewPgKPIStore(db DBTX, queryTimeout time.Duration) store.KPIStore {
	return &pgKPIStore{db: db, queryTimeout: queryTimeout}
}

const laborSummaryQuery = `SELECT active_projects, workers, total_hours, section3_hours, targeted_hours
	FROM section3_labor_summary`

// LaborSummary totals labor hours across active projects.
func (s *pgKPIStore) LaborSummary(ctx context.Context) (*types.LaborSummary, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	var (
		summary                   types.LaborSummary
		total, section3, targeted decimal.Decimal
	)
	err := s.db.QueryRow(ctx, laborSummaryQuery).Scan(
		&summary.ActiveProjects,
		&summary.Workers,
		&total,
		&section3,
		&targeted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load labor summary: %w", err)
	}

	summary.Hours = types.LaborHours{Total: total, Section3: section3, TargetedSection: targeted}
	return &summary, nil
}

// Pinger runs SELECT 1 against the pool for the database probe.
type Pinger struct {
	db DBTX
}

func NewPinger(db DBTX) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	var one int
	if err := p.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("select 1: %w", err)
	}
	return nil
}
