package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
)

var tables = []string{
	"chat_messages",
	"chat_group_members",
	"chat_groups",
	"users",
	"leaves",
	"attendances",
	"employees",
}

// setupPostgres connects to TEST_DATABASE_URL, applies the schema and
// truncates every table before and after the test.
func setupPostgres(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, db))
	require.NoError(t, truncateAll(ctx, db))
	t.Cleanup(func() {
		_ = truncateAll(ctx, db)
		db.Close()
	})
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}
