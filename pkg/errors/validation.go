package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const maxNameLength = 128

// documentNameRegex matches names safe to use as a file name, a SQL key,
// a Redis key suffix or a Mongo _id.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates a stored document name for safety.
// It rejects names that could be used for path traversal in the file store.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "document name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "document name cannot contain %q", "..")
	}

	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid document name: %q", name)
	}

	return nil
}

// ValidateCatalogPath validates a catalog file path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .json, .yaml or .yml
func ValidateCatalogPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "catalog path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "catalog path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return nil
	default:
		return New(ErrCodeInvalidPath, "catalog must be a .json, .yaml or .yml file: %q", path)
	}
}
