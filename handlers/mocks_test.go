package handlers

import (
	"context"

	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/stretchr/testify/mock"
)

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckHealth(ctx context.Context) types.AggregateHealth {
	args := m.Called(ctx)
	return args.Get(0).(types.AggregateHealth)
}

func (m *MockHealthService) CheckComponent(ctx context.Context, kind probe.Kind) (types.ProbeResult, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(types.ProbeResult), args.Error(1)
}

type MockDeploymentService struct {
	mock.Mock
}

func (m *MockDeploymentService) CheckPrerequisites() types.PrerequisiteReport {
	args := m.Called()
	return args.Get(0).(types.PrerequisiteReport)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetKPIs(ctx context.Context) (*types.ComplianceKPIs, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ComplianceKPIs), args.Error(1)
}
