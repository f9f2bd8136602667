package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expertwinding/storefront/app/models"
	"gorm.io/gorm"
)

// translateError maps driver and gorm errors onto the catalog error kinds.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %v", op, models.ErrConstraintViolation, err)
	case isConstraintMessage(err):
		return fmt.Errorf("%s: %w: %v", op, models.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isConstraintMessage catches drivers that do not implement gorm's error translator.
func isConstraintMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "violates foreign key") ||
		strings.Contains(msg, "violates unique")
}
