package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/telemetry"
)

// Classification constants.
const (
	maxBaseConfidence   = 0.95
	maxReportedPatterns = 3
)

// sensitivityParams is the (matchThreshold, baseConfidence, perMatchBonus)
// triple governing one sensitivity level.
type sensitivityParams struct {
	threshold int
	base      float64
	bonus     float64
}

var sensitivityTable = map[domain.Sensitivity]sensitivityParams{
	domain.SensitivityLow:    {threshold: 2, base: 0.40, bonus: 0.15},
	domain.SensitivityMedium: {threshold: 1, base: 0.50, bonus: 0.15},
	domain.SensitivityHigh:   {threshold: 1, base: 0.60, bonus: 0.20},
}

// Classifier evaluates the pattern library against posts and produces base
// classifications. It is stateless: the same inputs always yield the same
// output.
type Classifier struct {
	library   *PatternLibrary
	logger    Logger
	telemetry *telemetry.Provider
}

// NewClassifier creates a classifier over the given pattern library.
// The telemetry provider is optional.
func NewClassifier(library *PatternLibrary, logger Logger, tp *telemetry.Provider) *Classifier {
	return &Classifier{
		library:   library,
		logger:    logger,
		telemetry: tp,
	}
}

// ClassifyWithPatterns classifies a single post's content. It returns nil
// when the content is invalid or no enabled category reaches the
// sensitivity threshold; nil means "no opinion", not an error.
//
// A nil or empty category map disables every category. This conservative
// default (no settings => no filtering) is deliberate and load-bearing.
func (c *Classifier) ClassifyWithPatterns(
	content string,
	categories map[string]domain.CategoryConfig,
	sensitivity domain.Sensitivity,
) *domain.ClassificationResult {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	if len(categories) == 0 {
		return nil
	}

	params, ok := sensitivityTable[sensitivity]
	if !ok {
		params = sensitivityTable[domain.SensitivityMedium]
	}

	start := time.Now()

	var (
		bestCategory   string
		bestCount      int
		bestConfidence float64
		bestPatterns   []string
	)

	// Library declaration order makes the final tie-break deterministic.
	for _, cat := range c.library.Categories() {
		cfg, enabled := categories[cat.ID]
		if !enabled || !cfg.Enabled {
			continue
		}

		var matched []string
		for _, p := range cat.Patterns {
			if p.Matches(content) {
				matched = append(matched, p.ID)
			}
		}
		if len(matched) < params.threshold {
			continue
		}

		confidence := params.base + params.bonus*float64(len(matched))
		if confidence > maxBaseConfidence {
			confidence = maxBaseConfidence
		}

		if len(matched) > bestCount ||
			(len(matched) == bestCount && confidence > bestConfidence) {
			bestCategory = cat.ID
			bestCount = len(matched)
			bestConfidence = confidence
			bestPatterns = matched
		}
	}

	if c.telemetry != nil {
		c.telemetry.RecordPatternMatch(time.Since(start), bestCategory != "")
	}

	if bestCategory == "" {
		return nil
	}

	if len(bestPatterns) > maxReportedPatterns {
		bestPatterns = bestPatterns[:maxReportedPatterns]
	}

	c.logger.Debug("Pattern classification matched",
		"category", bestCategory,
		"match_count", bestCount,
		"confidence", bestConfidence,
		"sensitivity", string(sensitivity),
	)

	return &domain.ClassificationResult{
		Filter:          true,
		Category:        bestCategory,
		Confidence:      bestConfidence,
		Reason:          fmt.Sprintf("Matched %d pattern(s)", bestCount),
		MatchedPatterns: bestPatterns,
	}
}

// ClassifyPosts classifies each post independently against the supplied
// settings and returns one result per input, in input order. Posts no
// pattern matched produce a non-filtering result rather than nil.
func (c *Classifier) ClassifyPosts(posts []domain.Post, settings domain.Settings) []domain.ClassificationResult {
	results := make([]domain.ClassificationResult, 0, len(posts))
	sensitivity := domain.ParseSensitivity(string(settings.Sensitivity))

	for _, post := range posts {
		base := c.ClassifyWithPatterns(post.Content, settings.Categories, sensitivity)
		if base == nil {
			results = append(results, domain.ClassificationResult{
				PostID:     post.ID,
				Filter:     false,
				Confidence: 0,
				Reason:     domain.NoMatchReason,
			})
			continue
		}

		result := *base
		result.PostID = post.ID
		result.CategoryLabel = settings.CategoryLabel(result.Category)
		results = append(results, result)

		if c.telemetry != nil {
			c.telemetry.RecordClassification(result.Category, result.Filter)
		}
	}

	return results
}
