package migrations

import (
	"fmt"

	"github.com/expertwinding/storefront/app/models"
	"gorm.io/gorm"
)

// EnsureSchema creates the catalog tables that do not exist yet. Existing
// tables are left exactly as they are.
func EnsureSchema(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	migrator := db.Migrator()
	for _, model := range []interface{}{&models.Category{}, &models.Product{}} {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}
