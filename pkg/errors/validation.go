package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates a scenario name. Names end up in output file
// names, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateColour validates a colour written as #rrggbb.
func ValidateColour(s string) error {
	if len(s) != 7 || s[0] != '#' {
		return New(ErrCodeInvalidColour, "colour %q must be written as #rrggbb", s)
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return New(ErrCodeInvalidColour, "colour %q contains non-hex digit %q", s, r)
		}
	}
	return nil
}

// ValidateCacheURL validates a cache location: "none", a bare or file://
// directory, or a redis://, rediss://, mongodb:// or mongodb+srv:// URL.
// The empty string selects the default directory and is valid.
func ValidateCacheURL(raw string) error {
	if raw == "" {
		return nil
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCacheURL, "cache URL contains invalid characters")
		}
	}
	scheme, _, found := strings.Cut(raw, "://")
	if !found {
		return nil
	}
	switch scheme {
	case "file", "redis", "rediss", "mongodb", "mongodb+srv":
		return nil
	}
	return New(ErrCodeInvalidCacheURL, "unsupported cache scheme %q (must be one of: file, redis, rediss, mongodb, mongodb+srv)", scheme)
}
