package errors

import (
	"strings"
	"unicode"
)

// ValidateSourceRef validates a flow source reference before it is
// resolved. A ref is "-" for stdin, a local file path, or an http(s)
// URL; resolution happens later, this only rejects refs that can't be
// any of those.
//
// The validation rules are intentionally conservative:
//   - No empty refs
//   - No control characters or null bytes
//   - Maximum length of 2048 characters (longest reasonable URL)
func ValidateSourceRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "source ref cannot be empty")
	}

	if len(ref) > 2048 {
		return New(ErrCodeInvalidInput, "source ref too long (max 2048 characters)")
	}

	for _, r := range ref {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source ref contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a destination path for rendered output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//
// Unlike source refs, output paths may be absolute and may point
// anywhere the user can write; only unrepresentable paths are rejected.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
