package classifier

import (
	"testing"

	"github.com/jonesrussell/feedfilter/internal/domain"
)

// testLogger discards all output.
type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}

func allEnabled(library *PatternLibrary) map[string]domain.CategoryConfig {
	categories := make(map[string]domain.CategoryConfig)
	for _, cat := range library.Categories() {
		categories[cat.ID] = domain.CategoryConfig{Enabled: true, Label: cat.Label}
	}
	return categories
}

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultLibrary(), testLogger{}, nil)
}

func TestClassifyWithPatternsSensitivity(t *testing.T) {
	c := newTestClassifier()
	categories := allEnabled(c.library)

	tests := []struct {
		name           string
		content        string
		sensitivity    domain.Sensitivity
		wantFilter     bool
		wantCategory   string
		wantConfidence float64
	}{
		{
			name:        "single match below low threshold",
			content:     "We need to circle back on this.",
			sensitivity: domain.SensitivityLow,
			wantFilter:  false,
		},
		{
			name:           "single match at medium",
			content:        "We need to circle back on this.",
			sensitivity:    domain.SensitivityMedium,
			wantFilter:     true,
			wantCategory:   "corporate_fluff",
			wantConfidence: 0.65,
		},
		{
			name:           "single match at high",
			content:        "We need to circle back on this.",
			sensitivity:    domain.SensitivityHigh,
			wantFilter:     true,
			wantCategory:   "corporate_fluff",
			wantConfidence: 0.80,
		},
		{
			name:           "two matches clear low threshold",
			content:        "We should circle back and leverage this.",
			sensitivity:    domain.SensitivityLow,
			wantFilter:     true,
			wantCategory:   "corporate_fluff",
			wantConfidence: 0.70,
		},
		{
			name:           "unknown sensitivity behaves as medium",
			content:        "We need to circle back on this.",
			sensitivity:    domain.Sensitivity("extreme"),
			wantFilter:     true,
			wantCategory:   "corporate_fluff",
			wantConfidence: 0.65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.ClassifyWithPatterns(tt.content, categories, tt.sensitivity)
			if !tt.wantFilter {
				if result != nil {
					t.Fatalf("expected no classification, got %+v", result)
				}
				return
			}
			if result == nil {
				t.Fatal("expected a classification, got nil")
			}
			if result.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", result.Category, tt.wantCategory)
			}
			if !floatEquals(result.Confidence, tt.wantConfidence) {
				t.Errorf("confidence = %.4f, want %.4f", result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestClassifyWithPatternsConfidenceCap(t *testing.T) {
	c := newTestClassifier()
	categories := allEnabled(c.library)

	// Eight corporate fluff phrases in one post.
	content := "Synergy! Let's circle back on the paradigm shift: every thought leader " +
		"calls this a game-changer. We leverage core values to move the needle."

	result := c.ClassifyWithPatterns(content, categories, domain.SensitivityMedium)
	if result == nil {
		t.Fatal("expected a classification, got nil")
	}
	if !floatEquals(result.Confidence, 0.95) {
		t.Errorf("confidence = %.4f, want cap 0.95", result.Confidence)
	}
	if len(result.MatchedPatterns) != 3 {
		t.Errorf("reported patterns = %d, want 3", len(result.MatchedPatterns))
	}
}

func TestClassifyWithPatternsInvalidInput(t *testing.T) {
	c := newTestClassifier()
	categories := allEnabled(c.library)
	matching := "In today's fast-paced world, we need to adapt."

	if got := c.ClassifyWithPatterns("", categories, domain.SensitivityHigh); got != nil {
		t.Errorf("empty content: got %+v, want nil", got)
	}
	if got := c.ClassifyWithPatterns("   \n\t ", categories, domain.SensitivityHigh); got != nil {
		t.Errorf("whitespace content: got %+v, want nil", got)
	}
	if got := c.ClassifyWithPatterns(matching, nil, domain.SensitivityHigh); got != nil {
		t.Errorf("nil categories: got %+v, want nil", got)
	}
	if got := c.ClassifyWithPatterns(matching, map[string]domain.CategoryConfig{}, domain.SensitivityHigh); got != nil {
		t.Errorf("empty categories: got %+v, want nil", got)
	}
}

func TestClassifyWithPatternsDisabledCategory(t *testing.T) {
	c := newTestClassifier()
	categories := map[string]domain.CategoryConfig{
		"ai_generated": {Enabled: false},
	}

	result := c.ClassifyWithPatterns(
		"In today's fast-paced world, we need to adapt.",
		categories, domain.SensitivityMedium)
	if result != nil {
		t.Errorf("disabled category classified: %+v", result)
	}
}

func TestClassifyWithPatternsTieBreak(t *testing.T) {
	c := newTestClassifier()
	categories := allEnabled(c.library)

	// One match each in ai_generated and engagement_bait at equal
	// confidence. Library declaration order decides.
	content := "In today's world we keep moving. Thoughts?"
	result := c.ClassifyWithPatterns(content, categories, domain.SensitivityMedium)
	if result == nil {
		t.Fatal("expected a classification, got nil")
	}
	if result.Category != "ai_generated" {
		t.Errorf("tie-break category = %q, want ai_generated", result.Category)
	}
}

func TestClassifyWithPatternsIdempotent(t *testing.T) {
	c := newTestClassifier()
	categories := allEnabled(c.library)
	content := "Excited to announce my new masterclass. Sign up now, link in bio!"

	first := c.ClassifyWithPatterns(content, categories, domain.SensitivityMedium)
	second := c.ClassifyWithPatterns(content, categories, domain.SensitivityMedium)
	if first == nil || second == nil {
		t.Fatal("expected classifications, got nil")
	}
	if first.Category != second.Category || !floatEquals(first.Confidence, second.Confidence) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

func TestClassifyPosts(t *testing.T) {
	c := newTestClassifier()
	settings := domain.Settings{
		Categories:  allEnabled(c.library),
		Sensitivity: domain.SensitivityMedium,
	}

	posts := []domain.Post{
		{ID: "p1", Content: "In today's fast-paced world, we need to adapt.", Author: "Alice"},
		{ID: "p2", Content: "Had a nice lunch with colleagues today.", Author: "Bob"},
		{ID: "p3", Content: "Rise and grind! No days off for winners.", Author: "Carol"},
	}

	results := c.ClassifyPosts(posts, settings)
	if len(results) != len(posts) {
		t.Fatalf("got %d results, want %d", len(results), len(posts))
	}

	if !results[0].Filter || results[0].Category != "ai_generated" {
		t.Errorf("p1 = %+v, want filtered ai_generated", results[0])
	}
	if !floatEquals(results[0].Confidence, 0.65) {
		t.Errorf("p1 confidence = %.4f, want 0.65", results[0].Confidence)
	}
	if results[0].Reason != "Matched 1 pattern(s)" {
		t.Errorf("p1 reason = %q", results[0].Reason)
	}
	if results[0].CategoryLabel != "AI-generated" {
		t.Errorf("p1 label = %q, want AI-generated", results[0].CategoryLabel)
	}

	if results[1].Filter {
		t.Errorf("p2 filtered: %+v", results[1])
	}
	if results[1].Reason != domain.NoMatchReason {
		t.Errorf("p2 reason = %q, want %q", results[1].Reason, domain.NoMatchReason)
	}
	if results[1].Confidence != 0 {
		t.Errorf("p2 confidence = %.4f, want 0", results[1].Confidence)
	}

	if !results[2].Filter || results[2].Category != "hustle_culture" {
		t.Errorf("p3 = %+v, want filtered hustle_culture", results[2])
	}

	for i, post := range posts {
		if results[i].PostID != post.ID {
			t.Errorf("result %d post id = %q, want %q", i, results[i].PostID, post.ID)
		}
	}
}

func TestClassifyPostsEmptyBatch(t *testing.T) {
	c := newTestClassifier()
	results := c.ClassifyPosts(nil, domain.Settings{Sensitivity: domain.SensitivityMedium})
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestClassifyPostsLabelFallback(t *testing.T) {
	c := newTestClassifier()
	settings := domain.Settings{
		Categories: map[string]domain.CategoryConfig{
			"ai_generated": {Enabled: true}, // no label configured
		},
		Sensitivity: domain.SensitivityMedium,
	}

	results := c.ClassifyPosts([]domain.Post{
		{ID: "p1", Content: "In today's fast-paced world, we need to adapt."},
	}, settings)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].CategoryLabel != "ai_generated" {
		t.Errorf("label = %q, want fallback to category id", results[0].CategoryLabel)
	}
}

func floatEquals(a, b float64) bool {
	const epsilon = 1e-9
	diff := a - b
	return diff < epsilon && diff > -epsilon
}
