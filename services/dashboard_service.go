package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/section3-pro/compliance-backend/errors"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/store"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HUD Section 3 benchmarks: share of total labor hours worked by Section 3
// workers, and by Targeted Section 3 workers.
var (
	Section3Benchmark         = decimal.RequireFromString("0.25")
	TargetedSection3Benchmark = decimal.RequireFromString("0.05")
)

// DashboardService computes the compliance KPIs shown on the dashboard.
type DashboardService struct {
	kpis  store.KPIStore
	cache store.KPICache
	now   func() time.Time
	log   *zap.SugaredLogger
}

// NewDashboardService creates a DashboardService. A nil kpiStore means no
// database is configured and sample KPIs are served. cache may be nil.
func NewDashboardService(kpiStore store.KPIStore, cache store.KPICache) *DashboardService {
	return &DashboardService{
		kpis:  kpiStore,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
		log:   logger.GetLogger(),
	}
}

// GetKPIs returns cached KPIs when available and recomputes them otherwise.
func (s *DashboardService) GetKPIs(ctx context.Context) (*types.ComplianceKPIs, error) {
	if s.kpis == nil {
		return DemoKPIs(s.now()), nil
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, store.ErrCacheMiss):
			s.log.Warnw("KPI cache read failed, computing from database", "error", err)
		}
	}

	summary, err := s.kpis.LaborSummary(ctx)
	if err != nil {
		return nil, kpiStoreError(err)
	}

	kpis := ComputeKPIs(*summary, s.now())
	if s.cache != nil {
		if err := s.cache.Set(ctx, kpis); err != nil {
			s.log.Warnw("Failed to cache KPIs", "error", err)
		}
	}
	return kpis, nil
}

func kpiStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		appErr := apperrors.New(apperrors.NotFoundError, "Labor summary not available", "no labor hours have been recorded")
		appErr.Raw = err
		return appErr
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.DependencyUnavailable("KPI store", err)
	default:
		return apperrors.NewDatabaseError(err)
	}
}

// ComputeKPIs derives the benchmark ratios from raw labor hours. Ratios are
// rounded to two decimal places; benchmark comparisons use the exact values.
func ComputeKPIs(summary types.LaborSummary, at time.Time) *types.ComplianceKPIs {
	section3 := ratio(summary.Hours.Section3, summary.Hours.Total)
	targeted := ratio(summary.Hours.TargetedSection, summary.Hours.Total)

	return &types.ComplianceKPIs{
		ActiveProjects:        summary.ActiveProjects,
		Workers:               summary.Workers,
		Hours:                 summary.Hours,
		Section3Ratio:         section3.Round(2),
		TargetedSection3Ratio: targeted.Round(2),
		MeetsSection3Goal:     section3.GreaterThanOrEqual(Section3Benchmark),
		MeetsTargetedGoal:     targeted.GreaterThanOrEqual(TargetedSection3Benchmark),
		GeneratedAt:           at,
	}
}

func ratio(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total)
}

// DemoKPIs are the sample figures served in demo mode.
func DemoKPIs(at time.Time) *types.ComplianceKPIs {
	kpis := ComputeKPIs(types.LaborSummary{
		ActiveProjects: 3,
		Workers:        42,
		Hours: types.LaborHours{
			Total:           decimal.NewFromInt(12480),
			Section3:        decimal.NewFromInt(3370),
			TargetedSection: decimal.NewFromInt(686),
		},
	}, at)
	kpis.DemoMode = true
	return kpis
}
