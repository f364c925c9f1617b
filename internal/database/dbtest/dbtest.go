// Package dbtest opens migrated sqlite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saltyorg/wbnkit/internal/config"
	"github.com/saltyorg/wbnkit/internal/database"
)

// DSN returns a sqlite DSN for a fresh file inside the test's temp dir.
func DSN(t testing.TB) string {
	t.Helper()
	return "sqlite:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Config returns a single-entry configuration pointing at DSN(t).
func Config(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		Databases: map[string]config.DatabaseConfig{
			config.DefaultName: {
				Type:       config.BackendSQL,
				Connection: config.ConnectionConfig{DSN: DSN(t)},
			},
		},
	}
}

// Open returns a migrated sqlite database that is closed on cleanup.
func Open(t testing.TB) *database.DB {
	t.Helper()

	provider := database.NewProvider(Config(t))
	db, err := provider.Instance(context.Background(), config.DefaultName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}
