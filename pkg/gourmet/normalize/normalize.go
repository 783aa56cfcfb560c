// Package normalize cleans free-text review bodies before classification.
//
// Cleaning replaces newlines, drops parenthesized asides, keeps only Thai,
// ASCII letters and digits, whitespace and the punctuation . , ! ?, then
// collapses whitespace. Text is total and idempotent.
//
// Nested or unbalanced parentheses are not handled specially: "(a (b) c)"
// loses "(a (b)" and keeps " c" minus the stray ")".
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Thai block bounds.
const (
	scriptLo = '\u0E00'
	scriptHi = '\u0E7F'
)

var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// Text returns the cleaned form of s. Whitespace-only input yields "".
func Text(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if s == "" {
		return ""
	}
	s = parenthesized.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Value cleans an arbitrary cell value. Non-string input yields "".
func Value(v any) string {
	switch s := v.(type) {
	case string:
		return Text(s)
	case *string:
		if s == nil {
			return ""
		}
		return Text(*s)
	default:
		return ""
	}
}

func keep(r rune) bool {
	switch {
	case r >= scriptLo && r <= scriptHi:
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == ',', r == '!', r == '?':
		return true
	}
	return unicode.IsSpace(r)
}
