// Package store defines the persistence interfaces used by the services. The
// implementations live in the backend-specific subpackages.
package store

import (
	"context"

	"github.com/section3-pro/compliance-backend/types"
)

// KPIStore reads aggregate Section 3 labor figures.
type KPIStore interface {
	LaborSummary(ctx context.Context) (*types.LaborSummary, error)
}

// KPICache stores computed dashboard KPIs for a short time.
type KPICache interface {
	// Get returns ErrCacheMiss when nothing usable is cached.
	Get(ctx context.Context) (*types.ComplianceKPIs, error)
	Set(ctx context.Context, kpis *types.ComplianceKPIs) error
}
