package dbutils

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/section3-pro/compliance-backend/logger"
)

// Querier is satisfied by pgxpool.Pool and pgxmock.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MissingTables returns the names in tables that do not exist in the public schema.
func MissingTables(ctx context.Context, db Querier, tables []string) ([]string, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1)`

	var missing []string
	for _, name := range tables {
		var exists bool
		if err := db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check for table %s: %w", name, err)
		}
		if !exists {
			logger.GetLogger().Warnw("Table does not exist", "table", name)
			missing = append(missing, name)
		}
	}
	return missing, nil
}
