package supabase

import (
	"context"
	"fmt"

	"github.com/section3-pro/compliance-backend/store"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/shopspring/decimal"
	supa "github.com/supabase-community/supabase-go"
)

// LaborSummaryView is the view both KPI stores read.
const LaborSummaryView = "section3_labor_summary"

var _ store.KPIStore = (*KPIStore)(nil)

// KPIStore reads the labor summary view over PostgREST.
type KPIStore struct {
	client *supa.Client
	calls  flight
}

func NewKPIStore(client *supa.Client) *KPIStore {
	return &KPIStore{client: client}
}

type laborSummaryRow struct {
	ActiveProjects int             `json:"active_projects"`
	Workers        int             `json:"workers"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	Section3Hours  decimal.Decimal `json:"section3_hours"`
	TargetedHours  decimal.Decimal `json:"targeted_hours"`
}

func (s *KPIStore) LaborSummary(ctx context.Context) (*types.LaborSummary, error) {
	val, err := s.calls.do(ctx, LaborSummaryView, func() (any, error) {
		var rows []laborSummaryRow
		if _, err := s.client.From(LaborSummaryView).Select("*", "", false).Limit(1, "").ExecuteTo(&rows); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load labor summary: %w", err)
	}
	rows, _ := val.([]laborSummaryRow)
	if len(rows) == 0 {
		return nil, fmt.Errorf("labor summary view is empty: %w", store.ErrNotFound)
	}

	row := rows[0]
	return &types.LaborSummary{
		ActiveProjects: row.ActiveProjects,
		Workers:        row.Workers,
		Hours: types.LaborHours{
			Total:           row.TotalHours,
			Section3:        row.Section3Hours,
			TargetedSection: row.TargetedHours,
		},
	}, nil
}
