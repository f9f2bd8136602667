package helpers

import (
	"crypto/subtle"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// NewValidator reports field errors under the form field name rather than
// the Go field name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		label := capitalizeFirstLetter(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", label)
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", label)
		case "number":
			errorMessages[field] = fmt.Sprintf("%s must be a whole number.", label)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", label, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", label, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed the %s check.", label, err.Tag())
		}
	}
	return errorMessages
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// CheckAdminPassword compares the submitted password with the configured
// one. A non-empty bcrypt hash takes precedence over the plaintext value.
func CheckAdminPassword(submitted, plain, hash string) bool {
	if hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(submitted)) == nil
	}
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(plain)) == 1
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// RedirectWithMessage appends the status/message pair the templates show as
// a flash banner.
func RedirectWithMessage(path, status, message string) string {
	q := url.Values{}
	q.Set("status", status)
	q.Set("message", message)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// SafeNext accepts only local absolute paths as a post-login target.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}
