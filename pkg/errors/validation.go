package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a relative output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// boxIDRegex matches box identifiers: letters, digits and a few separators.
var boxIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)

// ValidateBoxID validates a box identifier from a scene document.
// Box IDs end up in SVG attributes and cache keys, so they are kept to a
// conservative alphabet.
func ValidateBoxID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "box id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "box id too long (max 128 characters)")
	}
	if !boxIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid box id: %q", id)
	}
	return nil
}

// layoutIDRegex matches stored layout identifiers (hex hashes and UUIDs).
var layoutIDRegex = regexp.MustCompile(`^[a-f0-9][a-f0-9-]{7,63}$`)

// ValidateLayoutID validates a layout identifier received over the API.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "layout id cannot be empty")
	}
	if !layoutIDRegex.MatchString(strings.ToLower(id)) {
		return New(ErrCodeInvalidID, "invalid layout id: %q", id)
	}
	return nil
}
