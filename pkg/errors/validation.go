package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a path relative to the application root.
// Asset paths come from configuration and are joined onto the root directory,
// so they must not escape it.
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

// slugRegex matches page slugs: lowercase words separated by single dashes.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateSlug validates a page slug as it appears in the URL path.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "page slug cannot be empty")
	}
	if len(slug) > 64 {
		return New(ErrCodeInvalidInput, "page slug too long (max 64 characters)")
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidInput, "invalid page slug: %q", slug)
	}
	return nil
}

// ValidateFontFamily validates a CSS font-family name.
// Quotes are escaped when the stylesheet is generated; here we only reject
// names that cannot be written inside a CSS string at all.
func ValidateFontFamily(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "font family cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "font family too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "font family contains control characters")
		}
	}
	if strings.ContainsAny(name, "<>") {
		return New(ErrCodeInvalidInput, "font family cannot contain markup characters")
	}
	return nil
}
