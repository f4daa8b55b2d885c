// Package classifier provides the adaptive local post classification engine:
// a pattern-matching classifier, a sensitivity model, and a feedback-driven
// learning layer that adjusts future classifications.
package classifier

import "regexp"

// Pattern is a fixed lexical matcher belonging to exactly one category.
// Matching is boolean per pattern, case-insensitive, tested once against
// the whole post content.
type Pattern struct {
	ID string
	re *regexp.Regexp
}

// Matches reports whether the pattern occurs in content.
func (p Pattern) Matches(content string) bool {
	return p.re.MatchString(content)
}

// Category is one bucket of undesirable content with its ordered matcher list.
type Category struct {
	ID       string
	Label    string
	Patterns []Pattern
}

// PatternLibrary is the static category -> matchers table. It is immutable
// at runtime; user additions surface only as learned keywords, never as
// raw patterns.
type PatternLibrary struct {
	categories []Category
}

// NewPatternLibrary builds a library from the given categories. Declaration
// order is preserved and serves as the final classification tie-break.
func NewPatternLibrary(categories []Category) *PatternLibrary {
	return &PatternLibrary{categories: categories}
}

// Categories returns the ordered category list.
func (l *PatternLibrary) Categories() []Category {
	return l.categories
}

// PatternCount returns the total number of patterns across all categories.
func (l *PatternLibrary) PatternCount() int {
	n := 0
	for _, c := range l.categories {
		n += len(c.Patterns)
	}
	return n
}

func pat(id, expr string) Pattern {
	return Pattern{ID: id, re: regexp.MustCompile(`(?i)` + expr)}
}

// DefaultLibrary returns the reference pattern set: 7 categories of feed
// noise. Several matchers carry known quirks that are kept for
// compatibility rather than corrected:
//   - end-of-string anchors (bait.agree) fail when trailing punctuation
//     follows the phrase
//   - emoji-literal patterns (bait.fire_emoji) interact badly with ASCII
//     word boundaries and match unreliably
//   - singular/plural coverage is inconsistent (fluff.thought_leader
//     misses "thought leaders", fluff.synergy matches both forms)
//   - bare institution names (politics.election, politics.congress)
//     over-match in non-political contexts
func DefaultLibrary() *PatternLibrary {
	return NewPatternLibrary([]Category{
		{
			ID:    "ai_generated",
			Label: "AI-generated",
			Patterns: []Pattern{
				pat("ai.todays_world", `in today's (fast-paced |ever-changing |modern )?world`),
				pat("ai.delve", `\bdelve (into|deeper)\b`),
				pat("ai.rich_tapestry", `\brich tapestry\b`),
				pat("ai.evolving_landscape", `\bin the (ever-evolving|dynamic|evolving) landscape of\b`),
				pat("ai.unlock_potential", `\bunlock (the |your )?(full |true )?potential\b`),
				pat("ai.not_just", `\bit'?s not just (about )?[a-z]+[,;] it'?s\b`),
				pat("ai.transitional_opener", `^(furthermore|moreover|additionally),`),
				pat("ai.in_conclusion", `\bin conclusion\b`),
			},
		},
		{
			ID:    "engagement_bait",
			Label: "Engagement bait",
			Patterns: []Pattern{
				pat("bait.agree", `\bagree\?$`),
				pat("bait.thoughts", `\bthoughts\?`),
				pat("bait.who_else", `^who else\b`),
				pat("bait.share_if", `\b(like|share|repost) if you\b`),
				pat("bait.comment_below", `\bcomment below\b`),
				pat("bait.tag_someone", `\btag (someone|a friend)\b`),
				pat("bait.fire_emoji", "\\b\U0001F525\\b"),
				pat("bait.controversial", `^unpopular opinion\b`),
			},
		},
		{
			ID:    "corporate_fluff",
			Label: "Corporate fluff",
			Patterns: []Pattern{
				pat("fluff.synergy", `\bsynerg(y|ies)\b`),
				pat("fluff.circle_back", `\bcircle back\b`),
				pat("fluff.paradigm_shift", `\bparadigm shift\b`),
				pat("fluff.thought_leader", `\bthought leader\b`),
				pat("fluff.game_changer", `\bgame.chang(er|ing)\b`),
				pat("fluff.leverage", `\bleverag(e|ing)\b`),
				pat("fluff.core_values", `\bcore values\b`),
				pat("fluff.move_the_needle", `\bmove the needle\b`),
			},
		},
		{
			ID:    "humblebrag",
			Label: "Humblebrag",
			Patterns: []Pattern{
				pat("brag.humbled", `\b(humbled|honored|honoured) (to|and)\b`),
				pat("brag.announce", `\b(excited|thrilled|proud) to (announce|share)\b`),
				pat("brag.blessed", `#?\bblessed\b`),
				pat("brag.my_journey", `\bmy journey\b`),
				pat("brag.milestone", `\b(hit|reached|passed) a (major |big )?milestone\b`),
			},
		},
		{
			ID:    "hustle_culture",
			Label: "Hustle culture",
			Patterns: []Pattern{
				pat("hustle.grind", `\b(rise and grind|the grind)\b`),
				pat("hustle.early_club", `\b[45]\s?am club\b`),
				pat("hustle.no_days_off", `\bno days? off\b`),
				pat("hustle.sleep_is_for", `\bsleep is for\b`),
				pat("hustle.while_you_sleep", `\bwhile (you|they) (sleep|were sleeping)\b`),
				pat("hustle.hustle", `\bhustle\b`),
			},
		},
		{
			ID:    "political_bait",
			Label: "Political bait",
			Patterns: []Pattern{
				pat("politics.election", `\belection\b`),
				pat("politics.congress", `\bcongress\b`),
				pat("politics.wake_up", `\bwake up,? (america|people|sheeple)\b`),
				pat("politics.they_dont_want", `\bthey don'?t want you to (know|see)\b`),
				pat("politics.mainstream_media", `\bmainstream media\b`),
			},
		},
		{
			ID:    "promotional",
			Label: "Promotional",
			Patterns: []Pattern{
				pat("promo.link_in_bio", `\blink in (bio|comments|the comments)\b`),
				pat("promo.dm_me", `\bdm me\b`),
				pat("promo.limited", `\blimited (time|spots|seats)\b`),
				pat("promo.webinar", `\b(free|join my) webinar\b`),
				pat("promo.sign_up", `\bsign up (now|today|here)\b`),
				pat("promo.masterclass", `\bmasterclass\b`),
			},
		},
	})
}
