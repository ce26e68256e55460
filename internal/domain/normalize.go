package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// codeShape matches a letter immediately followed by a digit anywhere in the
// string — the minimal structural check that a code looks like a real
// classification code (e.g. the "E1" in "E11"). Deliberately loose; do not
// tighten it without revisiting acceptance behavior.
var codeShape = regexp.MustCompile(`(?i)[a-z][0-9]`)

// NormalizeText prepares text for matching and scoring:
//   - converts to lowercase
//   - deletes every whitespace rune (not merely collapses runs)
//   - trims leading/trailing whitespace (a no-op after deletion, kept for
//     clarity of intent)
//
// The result is used only for comparisons, never shown to the caller.
func NormalizeText(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// HasCodeShape reports whether s contains a letter immediately followed by a
// digit, case-insensitive.
func HasCodeShape(s string) bool {
	return codeShape.MatchString(s)
}

// TruncateRunes returns s cut to at most max runes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
