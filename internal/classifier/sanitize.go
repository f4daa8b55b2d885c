package classifier

import (
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Post text scraped from the page can carry unpaired UTF-16 surrogate
// halves, which arrive here as ill-formed byte sequences. They must not
// corrupt serialized output, so each ill-formed sequence is replaced with
// U+FFFD independently; well-formed text passes through untouched.
var illFormedReplacer = runes.ReplaceIllFormed()

// SanitizeContent replaces ill-formed sequences in s with the Unicode
// replacement character. Valid strings are returned unchanged without
// allocation.
func SanitizeContent(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, _, err := transform.String(illFormedReplacer, s)
	if err != nil {
		// transform.String does not fail for ReplaceIllFormed, but the
		// rune round-trip gives the same replacement semantics.
		return string([]rune(s))
	}
	return out
}
