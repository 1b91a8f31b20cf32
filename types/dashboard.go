package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LaborHours are the raw Section 3 labor-hour totals for a reporting scope.
type LaborHours struct {
	Total           decimal.Decimal `json:"totalLaborHours"`
	Section3        decimal.Decimal `json:"section3LaborHours"`
	TargetedSection decimal.Decimal `json:"targetedSection3LaborHours"`
}

// ComplianceKPIs are the aggregate figures shown on the dashboard widgets.
type ComplianceKPIs struct {
	ActiveProjects        int             `json:"activeProjects"`
	Workers               int             `json:"workers"`
	Hours                 LaborHours      `json:"hours"`
	Section3Ratio         decimal.Decimal `json:"section3Ratio"`
	TargetedSection3Ratio decimal.Decimal `json:"targetedSection3Ratio"`
	MeetsSection3Goal     bool            `json:"meetsSection3Benchmark"`
	MeetsTargetedGoal     bool            `json:"meetsTargetedSection3Benchmark"`
	DemoMode              bool            `json:"demoMode"`
	GeneratedAt           time.Time       `json:"generatedAt"`
}

// LaborSummary is the raw aggregate read from the data store before ratios are applied.
type LaborSummary struct {
	ActiveProjects int
	Workers        int
	Hours          LaborHours
}
