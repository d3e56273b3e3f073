package errors

import (
	"strings"
	"unicode"
)

// maxCategoryLength bounds category tags read from input documents.
const maxCategoryLength = 64

// ValidateCategory validates a node category tag from an input document.
//
// Validation rules:
//   - Category cannot be empty
//   - Maximum length of 64 characters
//   - No control characters or null bytes
//
// Unknown but well-formed categories are accepted; the palette maps them to
// its catch-all color.
func ValidateCategory(category string) error {
	if category == "" {
		return SchemaError("category cannot be empty")
	}

	if len(category) > maxCategoryLength {
		return SchemaError("category too long (max %d characters)", maxCategoryLength)
	}

	for _, r := range category {
		if unicode.IsControl(r) {
			return SchemaError("category contains invalid control characters")
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
