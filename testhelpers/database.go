package testhelpers

import (
	"path/filepath"
	"testing"

	"github.com/expertwinding/storefront/app/configs"
	"github.com/expertwinding/storefront/app/models/migrations"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh SQLite database in a per-test temp directory
// with the catalog schema in place. The connection is closed on cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := configs.SQLiteDSN(filepath.Join(t.TempDir(), "shop_test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrations.EnsureSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}
