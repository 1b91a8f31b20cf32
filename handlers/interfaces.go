package handlers

import (
	"context"

	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/types"
)

// HealthServiceInterface defines the aggregator methods needed by handlers
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.AggregateHealth
	CheckComponent(ctx context.Context, kind probe.Kind) (types.ProbeResult, error)
}

// DeploymentServiceInterface defines the prerequisite validator methods needed by handlers
type DeploymentServiceInterface interface {
	CheckPrerequisites() types.PrerequisiteReport
}

// DashboardServiceInterface defines the dashboard methods needed by handlers
type DashboardServiceInterface interface {
	GetKPIs(ctx context.Context) (*types.ComplianceKPIs, error)
}
