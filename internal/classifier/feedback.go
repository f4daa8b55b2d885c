package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/telemetry"
)

// Recognized feedback signals.
const (
	SignalFilterApproved = "filterApproved"
	SignalFilterRejected = "filterRejected"
	SignalLiked          = "liked"
	SignalCommented      = "commented"
	SignalShared         = "shared"
	SignalHidden         = "hidden"
	SignalUnfollowed     = "unfollowed"
	SignalNotInterested  = "notInterested"
)

// maxKeywordsPerSignal bounds how many extracted keywords one signal can
// push into the learned lists.
const maxKeywordsPerSignal = 5

type keywordDirection int

const (
	keywordNone keywordDirection = iota
	keywordKeep
	keywordFilter
)

type patternOutcome int

const (
	patternNoOutcome patternOutcome = iota
	patternHit
	patternMiss
)

// signalEffect describes what one signal does to the learning store.
type signalEffect struct {
	reputationDelta int
	keywords        keywordDirection
	patterns        patternOutcome
}

var signalEffects = map[string]signalEffect{
	SignalFilterApproved: {reputationDelta: -1, keywords: keywordFilter, patterns: patternHit},
	SignalFilterRejected: {reputationDelta: 2, keywords: keywordKeep, patterns: patternMiss},
	SignalLiked:          {reputationDelta: 3, keywords: keywordKeep},
	SignalCommented:      {reputationDelta: 3, keywords: keywordKeep},
	SignalShared:         {reputationDelta: 3, keywords: keywordKeep},
	SignalHidden:         {reputationDelta: -10},
	SignalUnfollowed:     {reputationDelta: -10},
	SignalNotInterested:  {reputationDelta: -2, keywords: keywordFilter},
}

// LearningRepository is the persistence port for the learning store.
// Load returns an empty store when nothing has been persisted yet.
type LearningRepository interface {
	Load(ctx context.Context) (*domain.LearningData, error)
	Save(ctx context.Context, data *domain.LearningData) error
}

// FeedbackProcessor is the entry point external callers use to report a
// user decision or an observed interaction. Each call is one
// read-modify-write cycle against the learning store; the cycle is
// serialized with a mutex because the underlying store is a plain
// key-value get/set with no transactional guarantee.
type FeedbackProcessor struct {
	repo      LearningRepository
	logger    Logger
	telemetry *telemetry.Provider

	mu    sync.Mutex
	regen chan struct{}
}

// NewFeedbackProcessor creates a feedback processor over the given
// learning repository. The telemetry provider is optional.
func NewFeedbackProcessor(repo LearningRepository, logger Logger, tp *telemetry.Provider) *FeedbackProcessor {
	return &FeedbackProcessor{
		repo:      repo,
		logger:    logger,
		telemetry: tp,
		regen:     make(chan struct{}, 1),
	}
}

// RegenerationDue exposes the "preference profile regeneration due"
// event stream. One pending event coalesces any number of signals.
func (p *FeedbackProcessor) RegenerationDue() <-chan struct{} {
	return p.regen
}

// ProcessSignal applies one feedback signal to the learning store.
// Unknown signal names are logged and ignored without error. Storage
// failures are propagated to the caller; no retry happens here.
func (p *FeedbackProcessor) ProcessSignal(ctx context.Context, signal string, event domain.FeedbackEvent) error {
	effect, known := signalEffects[signal]
	if !known {
		p.logger.Warn("Ignoring unknown feedback signal", "signal", signal)
		if p.telemetry != nil {
			p.telemetry.RecordSignal(signal, false)
		}
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := p.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load learning store: %w", err)
	}

	p.applyReputation(data, event.Author, effect.reputationDelta)
	p.applyKeywords(data, event.Content, effect.keywords)
	applyPatternStats(data, event.MatchedPatterns, effect.patterns)

	if err := p.repo.Save(ctx, data); err != nil {
		return fmt.Errorf("save learning store: %w", err)
	}

	if p.telemetry != nil {
		p.telemetry.RecordSignal(signal, true)
	}
	p.logger.Debug("Feedback signal processed",
		"signal", signal,
		"author", NormalizeAuthor(event.Author),
		"matched_patterns", len(event.MatchedPatterns),
	)

	// Coalesced, non-blocking: the profile scheduler picks this up.
	select {
	case p.regen <- struct{}{}:
	default:
	}

	return nil
}

// applyReputation adjusts the author's score and clamps it. The sentinel
// "Unknown" author and empty names never accumulate reputation.
func (p *FeedbackProcessor) applyReputation(data *domain.LearningData, author string, delta int) {
	if delta == 0 {
		return
	}
	key := NormalizeAuthor(author)
	if key == "" || key == NormalizeAuthor(domain.UnknownAuthor) {
		return
	}

	score := data.AuthorReputation[key] + delta
	if score < domain.ReputationMin {
		score = domain.ReputationMin
	}
	if score > domain.ReputationMax {
		score = domain.ReputationMax
	}
	data.AuthorReputation[key] = score
}

// applyKeywords moves the top extracted keywords into the signal's list,
// removing them from the opposite list so the two stay disjoint, then
// enforces the FIFO cap on the receiving list.
func (p *FeedbackProcessor) applyKeywords(data *domain.LearningData, content string, direction keywordDirection) {
	if direction == keywordNone {
		return
	}

	keywords := ExtractKeywords(content)
	if len(keywords) > maxKeywordsPerSignal {
		keywords = keywords[:maxKeywordsPerSignal]
	}
	if len(keywords) == 0 {
		return
	}

	target, other := &data.Keywords.Keep, &data.Keywords.Filter
	if direction == keywordFilter {
		target, other = &data.Keywords.Filter, &data.Keywords.Keep
	}

	for _, word := range keywords {
		*other = removeWord(*other, word)
		if !containsWord(*target, word) {
			*target = append(*target, word)
		}
	}

	if excess := len(*target) - domain.MaxLearnedWords; excess > 0 {
		*target = append([]string{}, (*target)[excess:]...)
	}
}

// applyPatternStats increments hit or miss counters for the patterns that
// produced the original classification. Only explicit user verdicts
// (filterApproved/filterRejected) carry pattern evidence.
func applyPatternStats(data *domain.LearningData, patterns []string, outcome patternOutcome) {
	if outcome == patternNoOutcome || len(patterns) == 0 {
		return
	}
	for _, id := range patterns {
		stat := data.PatternStats[id]
		if outcome == patternHit {
			stat.Hits++
		} else {
			stat.Misses++
		}
		data.PatternStats[id] = stat
	}
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}

func removeWord(words []string, word string) []string {
	for i, w := range words {
		if w == word {
			return append(words[:i], words[i+1:]...)
		}
	}
	return words
}
