package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/expertwinding/storefront/app/models"
	"github.com/gosimple/slug"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

type Config struct {
	UploadDir       string // filesystem directory holding stored images
	PublicPrefix    string // URL prefix the upload dir is served under, e.g. /static/uploads
	PlaceholderPath string // URL reported for products without an image
}

type ImageStore struct {
	cfg Config
	now func() time.Time
}

func NewImageStore(cfg Config) *ImageStore {
	cfg.PublicPrefix = strings.TrimSuffix(cfg.PublicPrefix, "/")
	return &ImageStore{cfg: cfg, now: time.Now}
}

// WithClock replaces the time source used for stored filename prefixes.
func (s *ImageStore) WithClock(now func() time.Time) *ImageStore {
	s.now = now
	return s
}

func (s *ImageStore) Dir() string {
	return s.cfg.UploadDir
}

// CleanupResult reports the outcome of a best-effort file removal. Err is
// informational: callers log it and carry on.
type CleanupResult struct {
	Filename string
	Removed  bool
	Err      error
}

// ValidateAndStore checks the extension of the client-supplied name and
// writes content under <unix seconds>_<sanitized name>. It returns the
// stored filename.
func (s *ImageStore) ValidateAndStore(rawFilename string, content io.Reader) (string, error) {
	sanitized := SanitizeFilename(rawFilename)
	if !allowedExtensions[Extension(sanitized)] {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidImageFormat, rawFilename)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	stored := fmt.Sprintf("%d_%s", s.now().Unix(), sanitized)
	fullPath := filepath.Join(s.cfg.UploadDir, stored)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return stored, nil
}

// DeleteIfPresent removes a stored image. A missing file is not an error.
func (s *ImageStore) DeleteIfPresent(stored string) CleanupResult {
	result := CleanupResult{Filename: stored}
	if stored == "" {
		return result
	}

	err := os.Remove(filepath.Join(s.cfg.UploadDir, filepath.Base(stored)))
	switch {
	case err == nil:
		result.Removed = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		result.Err = err
	}
	return result
}

func (s *ImageStore) ResolveURL(stored *string) string {
	if stored == nil || *stored == "" {
		return s.cfg.PlaceholderPath
	}
	return s.cfg.PublicPrefix + "/" + *stored
}

// SanitizeFilename keeps only the last path component, folds the stem to a
// lowercase ASCII slug and strips anything but letters and digits from the
// extension. The extension keeps its original case.
func SanitizeFilename(raw string) string {
	name := strings.ReplaceAll(raw, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Trim(name, "._ \t")
	if name == "" {
		return ""
	}

	i := strings.LastIndex(name, ".")
	if i < 0 {
		return slugOrDefault(name)
	}

	stem := slugOrDefault(name[:i])
	ext := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, name[i+1:])
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// Extension returns the lower-cased text after the last dot, or "".
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

func slugOrDefault(s string) string {
	if out := slug.Make(s); out != "" {
		return out
	}
	return "image"
}
