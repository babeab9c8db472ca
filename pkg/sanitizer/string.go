package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading/trailing whitespace and collapses internal
// runs of whitespace to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans a person's display name before it is persisted or
// matched against existing bookings.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeNote cleans free-text notes attached to a booking.
func NormalizeNote(note string) string {
	return TrimAndNormalize(note)
}

// NormalizeEmail lowercases and trims an email address; matching against the
// store is exact after normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
