package classifier

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// countKeywordMatches returns the total number of case-insensitive
// substring occurrences of the learned words in content. Every occurrence
// counts, so a word repeated three times outweighs a single occurrence
// from the opposite list.
//
// The learned lists are capped at domain.MaxLearnedWords entries each, so
// building the automaton per call stays cheap.
func countKeywordMatches(content string, words []string) int {
	if content == "" || len(words) == 0 {
		return 0
	}

	lowered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	if len(lowered) == 0 {
		return 0
	}

	haystack := strings.ToLower(content)
	matcher := ahocorasick.NewStringMatcher(lowered)

	// The automaton reports which words occur; occurrences of each are
	// tallied separately since Match yields each pattern at most once.
	total := 0
	for _, hit := range matcher.Match([]byte(haystack)) {
		total += strings.Count(haystack, lowered[hit])
	}
	return total
}
