package parser

import "strings"

// NormalizeText unifies line endings, collapses runs of blank lines to a
// single blank line, and trims surrounding whitespace. Used for the text view
// of free-text items; the raw payload is never modified.
func NormalizeText(s string) string {
	s = normalizeNewlines(s)
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
