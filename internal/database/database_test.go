package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/database"
	"arc-framework/seeder/internal/models"
	"arc-framework/seeder/internal/testhelpers"
)

func TestOpenSQLite_Pragmas(t *testing.T) {
	t.Parallel()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping())

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_SQLiteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seeder.db")
	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		LogLevel: "silent",
		SQLite:   config.SQLiteConfig{Path: path},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(context.Background(), db))

	var journalMode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&journalMode).Error)
	assert.Equal(t, "wal", journalMode)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := database.Open(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	t.Parallel()

	db := testhelpers.NewTestDB(t)

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "table for %T", m)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	db := testhelpers.NewTestDB(t)

	// NewTestDB already migrated once.
	assert.NoError(t, database.Migrate(context.Background(), db))
}
