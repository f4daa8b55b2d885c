package classifier

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keyword extraction bounds.
const (
	maxExtractedKeywords = 20
	minKeywordLength     = 4
	maxKeywordLength     = 25
)

// stopWords holds common English function words plus feed-domain noise
// words. Tokens shorter than minKeywordLength are dropped before this set
// is consulted, so it only needs to cover longer words.
var stopWords = map[string]struct{}{
	// English function words
	"that": {}, "this": {}, "with": {}, "have": {}, "from": {}, "your": {},
	"about": {}, "would": {}, "could": {}, "should": {}, "there": {},
	"their": {}, "theirs": {}, "them": {}, "then": {}, "than": {},
	"they": {}, "these": {}, "those": {}, "what": {}, "which": {},
	"when": {}, "where": {}, "while": {}, "were": {}, "will": {},
	"been": {}, "being": {}, "because": {}, "very": {}, "just": {},
	"like": {}, "also": {}, "more": {}, "most": {}, "some": {},
	"such": {}, "only": {}, "over": {}, "into": {}, "onto": {},
	"after": {}, "before": {}, "again": {}, "every": {}, "each": {},
	"other": {}, "another": {}, "here": {}, "does": {}, "doing": {},
	"down": {}, "even": {}, "ever": {}, "much": {}, "many": {},
	"made": {}, "make": {}, "making": {}, "want": {}, "really": {},
	"still": {}, "through": {}, "itself": {}, "yourself": {},
	"myself": {}, "youre": {}, "you're": {}, "don't": {}, "dont": {},
	"can't": {}, "cant": {}, "it's": {}, "that's": {}, "thats": {},
	// Feed-domain noise
	"linkedin": {}, "post": {}, "posts": {}, "posted": {}, "comment": {},
	"comments": {}, "today": {}, "share": {}, "shared": {}, "sharing": {},
	"follow": {}, "following": {}, "followers": {}, "connection": {},
	"connections": {}, "profile": {}, "feed": {}, "people": {},
	"thing": {}, "things": {}, "going": {}, "know": {}, "time": {},
	"year": {}, "years": {}, "week": {}, "month": {}, "everyone": {},
}

// ExtractKeywords tokenizes free text into a ranked list of content words:
// lowercase, stripped of everything except letters, digits, apostrophes
// and hyphens, filtered for length, stop-words and pure numbers. The most
// frequent words come first; ties keep first-seen order. At most
// maxExtractedKeywords words are returned. Invalid or empty input yields
// an empty list.
func ExtractKeywords(content string) []string {
	if strings.TrimSpace(content) == "" {
		return []string{}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, token := range strings.Fields(strings.ToLower(content)) {
		word := stripToken(token)
		if !keepKeyword(word) {
			continue
		}
		if _, seen := counts[word]; !seen {
			firstSeen[word] = order
			order++
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}

	sort.SliceStable(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > maxExtractedKeywords {
		words = words[:maxExtractedKeywords]
	}
	return words
}

// stripToken removes every rune that is not a letter, digit, apostrophe
// or hyphen.
func stripToken(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// keepKeyword applies the length, stop-word and pure-number filters.
// Length bounds are in characters, not bytes.
func keepKeyword(word string) bool {
	if n := utf8.RuneCountInString(word); n < minKeywordLength || n > maxKeywordLength {
		return false
	}
	if _, stopped := stopWords[word]; stopped {
		return false
	}

	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}
