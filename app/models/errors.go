package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced category or product does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation marks bad input. Use errors.As with *ValidationError for field details.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidImageFormat is returned for uploads whose extension is not an accepted image type.
	ErrInvalidImageFormat = fmt.Errorf("invalid image format: %w", ErrValidation)

	// ErrConstraintViolation is returned when a write breaks a uniqueness or foreign-key rule.
	ErrConstraintViolation = errors.New("constraint violation")

	ErrUnauthorized = errors.New("admin authorization required")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
