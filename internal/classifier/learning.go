package classifier

import (
	"strings"

	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/telemetry"
)

// Scoring model constants. Hoisted into one table so the model is
// auditable and unit-testable in isolation.
const (
	// Author reputation bands.
	strongNegativeReputation   = -10 // r <= -10
	mildNegativeReputation     = -5  // -10 < r <= -5
	dominantPositiveReputation = 20  // r >= 20: trusted author, never filter
	strongPositiveReputation   = 10  // 10 <= r < 20
	mildPositiveReputation     = 5   // 5 <= r < 10

	strongNegativeBoost   = 0.20
	mildNegativeBoost     = 0.10
	strongPositivePenalty = -0.30
	mildPositivePenalty   = -0.15

	// Learned keyword adjustment.
	keywordAdjustmentStep = 0.10
	maxKeywordNetMatches  = 3

	// Pattern accuracy weighting.
	minPatternObservations = 3
	patternWeightFloor     = 0.5

	// Below this adjusted confidence the filter decision is suppressed.
	learnedFilterFloor = 0.40
)

// Adjustment reasons surfaced to callers.
const (
	ReasonTrustedAuthor     = "Author has strong positive reputation"
	ReasonConfidenceReduced = "Confidence reduced by learning"
)

// NormalizeAuthor converts a display name to the key used for learning.
// Author names are never stored verbatim.
func NormalizeAuthor(author string) string {
	return strings.ToLower(strings.TrimSpace(author))
}

// Adjuster blends three independent evidence sources - social trust
// (author reputation), lexical preference (learned keywords) and pattern
// reliability (hit/miss accuracy) - into a final confidence and
// filter decision. The trust override can fully suppress a filter
// decision regardless of pattern strength.
type Adjuster struct {
	logger    Logger
	telemetry *telemetry.Provider
}

// NewAdjuster creates an adjuster. The telemetry provider is optional.
func NewAdjuster(logger Logger, tp *telemetry.Provider) *Adjuster {
	return &Adjuster{logger: logger, telemetry: tp}
}

// ApplyLearning combines the learning store state with a base
// classification. It is a no-op returning the input unchanged when base
// is nil or not a filter decision. The input result is never mutated.
//
// Clamping order is load-bearing: adjustments are summed first, the sum
// is multiplied by the mean pattern weight, and only then clamped to
// [0,1]. Reordering changes numeric outcomes at the boundaries.
func (a *Adjuster) ApplyLearning(
	base *domain.ClassificationResult,
	author, content string,
	data *domain.LearningData,
) *domain.ClassificationResult {
	if base == nil || !base.Filter {
		return base
	}
	if data == nil {
		return base
	}

	reputation := data.AuthorReputation[NormalizeAuthor(author)]
	authorAdj, dominated := authorAdjustment(reputation)

	if dominated {
		result := *base
		result.Filter = false
		result.Reason = ReasonTrustedAuthor
		result.LearningApplied = true
		a.logger.Debug("Trusted author override",
			"reputation", reputation,
			"category", base.Category,
		)
		if a.telemetry != nil {
			a.telemetry.RecordLearningOverride("trusted_author")
		}
		return &result
	}

	keywordAdj := keywordAdjustment(content, data.Keywords)

	confidence := base.Confidence + authorAdj + keywordAdj
	if weight, ok := meanPatternWeight(base.MatchedPatterns, data.PatternStats); ok {
		confidence *= weight
	}
	confidence = clamp01(confidence)

	result := *base
	result.Confidence = confidence
	result.LearningApplied = true

	if confidence < learnedFilterFloor {
		result.Filter = false
		result.Reason = ReasonConfidenceReduced
		if a.telemetry != nil {
			a.telemetry.RecordLearningOverride("low_confidence")
		}
	}

	a.logger.Debug("Learning adjustments applied",
		"base_confidence", base.Confidence,
		"author_adjustment", authorAdj,
		"keyword_adjustment", keywordAdj,
		"final_confidence", confidence,
		"filter", result.Filter,
	)

	return &result
}

// authorAdjustment maps a reputation score to a confidence delta. The
// second return reports the trusted-author override (r >= 20), which
// dominates every other adjustment. Bands are checked most-extreme first.
func authorAdjustment(r int) (float64, bool) {
	switch {
	case r <= strongNegativeReputation:
		return strongNegativeBoost, false
	case r >= dominantPositiveReputation:
		return 0, true
	case r <= mildNegativeReputation:
		return mildNegativeBoost, false
	case r >= strongPositiveReputation:
		return strongPositivePenalty, false
	case r >= mildPositiveReputation:
		return mildPositivePenalty, false
	default:
		return 0, false
	}
}

// keywordAdjustment computes the net learned-keyword delta: filter-word
// dominance pushes toward filtering, keep-word dominance pushes away.
// The net difference is capped at maxKeywordNetMatches either way.
func keywordAdjustment(content string, lists domain.KeywordLists) float64 {
	filterMatches := countKeywordMatches(content, lists.Filter)
	keepMatches := countKeywordMatches(content, lists.Keep)

	switch {
	case filterMatches > keepMatches:
		net := filterMatches - keepMatches
		if net > maxKeywordNetMatches {
			net = maxKeywordNetMatches
		}
		return keywordAdjustmentStep * float64(net)
	case keepMatches > filterMatches:
		net := keepMatches - filterMatches
		if net > maxKeywordNetMatches {
			net = maxKeywordNetMatches
		}
		return -keywordAdjustmentStep * float64(net)
	default:
		return 0
	}
}

// meanPatternWeight averages the reliability weights (0.5 + accuracy) of
// the matched patterns that have at least minPatternObservations recorded
// outcomes. Patterns with fewer observations are excluded entirely.
func meanPatternWeight(patterns []string, stats map[string]domain.PatternStat) (float64, bool) {
	var sum float64
	var n int
	for _, id := range patterns {
		stat, ok := stats[id]
		if !ok || stat.Observations() < minPatternObservations {
			continue
		}
		sum += patternWeightFloor + stat.Accuracy()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
