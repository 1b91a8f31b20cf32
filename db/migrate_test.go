package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://app@localhost/section3", convertToPgx5URL("postgres://app@localhost/section3"))
	assert.Equal(t, "pgx5://app@localhost/section3", convertToPgx5URL("postgresql://app@localhost/section3"))
	assert.Equal(t, "pgx5://already", convertToPgx5URL("pgx5://already"))
}

func TestMigrationsAreEmbeddedInPairs(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
