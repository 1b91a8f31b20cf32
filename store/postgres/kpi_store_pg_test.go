package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestKPIStore_LaborSummary(t *testing.T) {
	mock := setupMockPool(t)
	kpiStore := NewPgKPIStore(mock, time.Second)

	rows := pgxmock.NewRows([]string{"active_projects", "workers", "total_hours", "section3_hours", "targeted_hours"}).
		AddRow(4, 57, decimal.RequireFromString("12000.50"), decimal.RequireFromString("3150.25"), decimal.RequireFromString("720"))
	mock.ExpectQuery(`SELECT .+ FROM section3_labor_summary`).WillReturnRows(rows)

	summary, err := kpiStore.LaborSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.ActiveProjects)
	assert.Equal(t, 57, summary.Workers)
	assert.True(t, decimal.RequireFromString("12000.50").Equal(summary.Hours.Total))
	assert.True(t, decimal.RequireFromString("3150.25").Equal(summary.Hours.Section3))
	assert.True(t, decimal.NewFromInt(720).Equal(summary.Hours.TargetedSection))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKPIStore_LaborSummaryError(t *testing.T) {
	mock := setupMockPool(t)
	kpiStore := NewPgKPIStore(mock, 0)

	mock.ExpectQuery(`SELECT .+ FROM section3_labor_summary`).WillReturnError(errors.New("relation \"labor_hours\" does not exist"))

	summary, err := kpiStore.LaborSummary(context.Background())
	assert.Nil(t, summary)
	assert.ErrorContains(t, err, "failed to load labor summary")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPinger(t *testing.T) {
	mock := setupMockPool(t)
	pinger := NewPinger(mock)

	mock.ExpectQuery(`SELECT 1`).WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	assert.NoError(t, pinger.Ping(context.Background()))

	mock.ExpectQuery(`SELECT 1`).WillReturnError(errors.New("connection reset"))
	assert.ErrorContains(t, pinger.Ping(context.Background()), "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}
