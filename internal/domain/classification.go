package domain

// Sensitivity controls how eagerly posts are filtered.
type Sensitivity string

// Sensitivity levels.
const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// ParseSensitivity coerces a raw string to a known sensitivity level.
// Unknown values degrade to medium, never an error.
func ParseSensitivity(raw string) Sensitivity {
	switch Sensitivity(raw) {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return Sensitivity(raw)
	default:
		return SensitivityMedium
	}
}

// CategoryConfig is the caller-supplied state for one category.
// Label defaults to the category id when empty. Description is consumed
// only by the remote rich classifier.
type CategoryConfig struct {
	Enabled     bool   `json:"enabled"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// Settings is the per-call classification configuration supplied by the
// host application. A nil or empty Categories map disables every category.
type Settings struct {
	Categories  map[string]CategoryConfig `json:"categories"`
	Sensitivity Sensitivity               `json:"sensitivity"`
}

// CategoryLabel returns the configured label for a category id, falling
// back to the raw id.
func (s Settings) CategoryLabel(id string) string {
	if cfg, ok := s.Categories[id]; ok && cfg.Label != "" {
		return cfg.Label
	}
	return id
}

// ClassificationResult is the outcome of classifying one post.
// A non-filtering result carries an empty Category and zero Confidence.
type ClassificationResult struct {
	PostID          string   `json:"post_id,omitempty"`
	Filter          bool     `json:"filter"`
	Category        string   `json:"category,omitempty"`
	CategoryLabel   string   `json:"category_label,omitempty"`
	Confidence      float64  `json:"confidence"`
	Reason          string   `json:"reason"`
	MatchedPatterns []string `json:"matched_patterns,omitempty"`
	LearningApplied bool     `json:"learning_applied,omitempty"`
}

// NoMatchReason is the reason attached to batch results for posts no
// pattern matched.
const NoMatchReason = "No patterns matched"
