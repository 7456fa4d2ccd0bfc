package testhelpers

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/database"
	"arc-framework/seeder/internal/models"
)

func init() {
	// Seeding hashes several passwords per test; keep that cheap.
	models.PasswordCost = bcrypt.MinCost
}

// NewTestDB returns a migrated in-memory SQLite database configured the same
// way as the sqlite driver in production. It is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		LogLevel: "silent",
		SQLite:   config.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
