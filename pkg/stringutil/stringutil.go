package stringutil

import (
	"strings"
)

// NeedsQuotes reports whether s is not a plain identifier of letters, digits and underscores.
func NeedsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isIdentifierChar(s[i]) {
			return true
		}
	}
	return false
}

func isIdentifierChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// NormalizeIdentifier quotes s with quote when it is not a plain identifier.
// A quote inside s is doubled.
func NormalizeIdentifier(s string, quote byte) string {
	if s == "" || !NeedsQuotes(s) {
		return s
	}

	q := string(quote)

	b := &strings.Builder{}
	b.WriteString(q)
	b.WriteString(strings.ReplaceAll(s, q, q+q))
	b.WriteString(q)
	return b.String()
}
