package domain

import "time"

// Learning store bounds.
const (
	ReputationMin   = -100
	ReputationMax   = 100
	MaxLearnedWords = 200
)

// PatternStat tracks feedback outcomes for one pattern identifier.
// Counters are unbounded; only the hit ratio is ever consumed.
type PatternStat struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Observations returns the total number of recorded outcomes.
func (p PatternStat) Observations() int {
	return p.Hits + p.Misses
}

// Accuracy returns the hit ratio. Zero observations yield zero.
func (p PatternStat) Accuracy() float64 {
	total := p.Observations()
	if total == 0 {
		return 0
	}
	return float64(p.Hits) / float64(total)
}

// KeywordLists holds the learned keep/filter word lists. A word belongs
// to at most one list; each list keeps the most recent MaxLearnedWords
// insertions, oldest evicted first.
type KeywordLists struct {
	Keep   []string `json:"keep"`
	Filter []string `json:"filter"`
}

// LearningData is the single persisted learning aggregate. It is created
// empty, mutated only by the feedback processor, and read (never mutated)
// during classification adjustment.
type LearningData struct {
	AuthorReputation map[string]int         `json:"author_reputation"`
	Keywords         KeywordLists           `json:"keywords"`
	PatternStats     map[string]PatternStat `json:"pattern_stats"`
}

// NewLearningData returns an empty learning store.
func NewLearningData() *LearningData {
	return &LearningData{
		AuthorReputation: make(map[string]int),
		Keywords:         KeywordLists{Keep: []string{}, Filter: []string{}},
		PatternStats:     make(map[string]PatternStat),
	}
}

// Normalize repairs nil maps and lists after deserialization so a
// partially-populated or legacy payload behaves like an empty store.
func (d *LearningData) Normalize() {
	if d.AuthorReputation == nil {
		d.AuthorReputation = make(map[string]int)
	}
	if d.Keywords.Keep == nil {
		d.Keywords.Keep = []string{}
	}
	if d.Keywords.Filter == nil {
		d.Keywords.Filter = []string{}
	}
	if d.PatternStats == nil {
		d.PatternStats = make(map[string]PatternStat)
	}
}

// FeedbackEvent carries the context of one user decision or observed
// interaction reported to the feedback processor.
type FeedbackEvent struct {
	Author          string   `json:"author"`
	Content         string   `json:"content"`
	MatchedPatterns []string `json:"matched_patterns,omitempty"`
}

// FeedbackRecord is one archived feedback event, kept so the profile
// summarizer can send recent examples to the rich classifier.
type FeedbackRecord struct {
	ID             int       `db:"id"              json:"id"`
	Signal         string    `db:"signal"          json:"signal"`
	Author         string    `db:"author"          json:"author"`
	ContentExcerpt string    `db:"content_excerpt" json:"content_excerpt"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}
