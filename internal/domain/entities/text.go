package entities

import "unicode/utf8"

const (
	// MaxFieldLength is the cap applied to every text field written into a slide
	MaxFieldLength = 150

	// Ellipsis marks a truncated value
	Ellipsis = "..."
)

// Truncate shortens s to at most limit characters, replacing the tail with
// an ellipsis. Strings already within the limit are returned unchanged, so
// Truncate(Truncate(s, n), n) == Truncate(s, n).
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	if limit <= len(Ellipsis) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(Ellipsis)]) + Ellipsis
}

// TruncateField applies the slide field cap
func TruncateField(s string) string {
	return Truncate(s, MaxFieldLength)
}

// Length returns the character count used for all length limits
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
