package api

import (
	"github.com/jonesrussell/feedfilter/internal/domain"
)

// ClassifyRequest is the body for POST /api/v1/classify.
// Settings are optional; the service defaults apply when omitted.
type ClassifyRequest struct {
	Post     domain.Post      `json:"post"     binding:"required"`
	Settings *domain.Settings `json:"settings"`
}

// ClassifyBatchRequest is the body for POST /api/v1/classify/batch.
type ClassifyBatchRequest struct {
	Posts    []domain.Post    `json:"posts"`
	Settings *domain.Settings `json:"settings"`
}

// ClassifyBatchResponse returns one result per input post, in order.
type ClassifyBatchResponse struct {
	Results []domain.ClassificationResult `json:"results"`
	Total   int                           `json:"total"`
}

// FeedbackRequest is the body for POST /api/v1/feedback.
type FeedbackRequest struct {
	Signal          string   `json:"signal" binding:"required"`
	Author          string   `json:"author"`
	Content         string   `json:"content"`
	MatchedPatterns []string `json:"matched_patterns"`
}

// CategoryResponse describes one pattern library category.
type CategoryResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Patterns int    `json:"patterns"`
}

// CategoriesResponse lists the pattern library categories.
type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

// StatusResponse is the generic acknowledgement body.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
