package dbutils

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestMissingTables(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("projects").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("labor_hours").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	missing, err := MissingTables(context.Background(), mock, []string{"projects", "labor_hours"})
	require.NoError(t, err)
	assert.Equal(t, []string{"labor_hours"}, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingTables_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("projects").WillReturnError(errors.New("permission denied"))

	_, err = MissingTables(context.Background(), mock, []string{"projects"})
	assert.ErrorContains(t, err, "permission denied")
}
