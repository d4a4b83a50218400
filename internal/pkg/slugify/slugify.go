package slugify

import (
	"strconv"
	"strings"
	"unicode"
)

// Make converts a title or name to a URL-safe slug: lowercase ASCII with
// single dashes between words. Returns "" for input with no usable runes.
func Make(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Unique appends a numeric suffix until taken reports the slug as free.
func Unique(base string, taken func(string) bool) string {
	if base == "" {
		base = "untitled"
	}
	slug := base
	for i := 2; taken(slug); i++ {
		slug = base + "-" + strconv.Itoa(i)
	}
	return slug
}
