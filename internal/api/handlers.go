package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/feedfilter/internal/classifier"
	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/processor"
	"github.com/jonesrussell/feedfilter/internal/storage"
)

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// FeedbackRecorder archives feedback events for the profile summarizer.
type FeedbackRecorder interface {
	Record(ctx context.Context, signal, author, content string) error
}

// Handler handles HTTP requests for the feedfilter API.
type Handler struct {
	pipeline     *processor.Pipeline
	feedback     *classifier.FeedbackProcessor
	learningRepo *storage.LearningStoreRepository
	history      FeedbackRecorder // optional
	library      *classifier.PatternLibrary
	defaults     domain.Settings
	logger       Logger
}

// NewHandler creates a new API handler. history may be nil when no
// feedback archive is configured.
func NewHandler(
	pipeline *processor.Pipeline,
	feedback *classifier.FeedbackProcessor,
	learningRepo *storage.LearningStoreRepository,
	history FeedbackRecorder,
	library *classifier.PatternLibrary,
	defaults domain.Settings,
	logger Logger,
) *Handler {
	return &Handler{
		pipeline:     pipeline,
		feedback:     feedback,
		learningRepo: learningRepo,
		history:      history,
		library:      library,
		defaults:     defaults,
		logger:       logger,
	}
}

// Classify handles POST /api/v1/classify.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings := h.settingsOrDefault(req.Settings)
	results, err := h.pipeline.ClassifyPosts(c.Request.Context(), []domain.Post{req.Post}, settings)
	if err != nil {
		h.logger.Error("Classification failed", "error", err, "post_id", req.Post.ID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "classification failed"})
		return
	}

	c.JSON(http.StatusOK, results[0])
}

// ClassifyBatch handles POST /api/v1/classify/batch.
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req ClassifyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings := h.settingsOrDefault(req.Settings)
	results, err := h.pipeline.ClassifyPosts(c.Request.Context(), req.Posts, settings)
	if err != nil {
		h.logger.Error("Batch classification failed", "error", err, "batch_size", len(req.Posts))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "classification failed"})
		return
	}

	c.JSON(http.StatusOK, ClassifyBatchResponse{Results: results, Total: len(results)})
}

// Feedback handles POST /api/v1/feedback. Unknown signals are accepted
// and ignored, matching the engine contract.
func (h *Handler) Feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	event := domain.FeedbackEvent{
		Author:          req.Author,
		Content:         classifier.SanitizeContent(req.Content),
		MatchedPatterns: req.MatchedPatterns,
	}
	if err := h.feedback.ProcessSignal(c.Request.Context(), req.Signal, event); err != nil {
		h.logger.Error("Feedback processing failed", "error", err, "signal", req.Signal)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "feedback processing failed"})
		return
	}

	if h.history != nil {
		if err := h.history.Record(c.Request.Context(), req.Signal, req.Author, event.Content); err != nil {
			// The learning store already committed; archiving is best-effort.
			h.logger.Warn("Failed to archive feedback event", "error", err)
		}
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// GetLearning handles GET /api/v1/learning.
func (h *Handler) GetLearning(c *gin.Context) {
	data, err := h.learningRepo.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load learning store", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "learning store unavailable"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// ResetLearning handles DELETE /api/v1/learning.
func (h *Handler) ResetLearning(c *gin.Context) {
	if err := h.learningRepo.Reset(c.Request.Context()); err != nil {
		h.logger.Error("Failed to reset learning store", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "reset failed"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "reset"})
}

// GetProfile handles GET /api/v1/learning/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.learningRepo.LoadProfile(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load preference profile", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "profile unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	cats := h.library.Categories()
	resp := CategoriesResponse{Categories: make([]CategoryResponse, 0, len(cats)), Total: len(cats)}
	for _, cat := range cats {
		resp.Categories = append(resp.Categories, CategoryResponse{
			ID:       cat.ID,
			Label:    cat.Label,
			Patterns: len(cat.Patterns),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "healthy"})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if _, err := h.learningRepo.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "learning store unavailable"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

func (h *Handler) settingsOrDefault(s *domain.Settings) domain.Settings {
	if s == nil {
		return h.defaults
	}
	return *s
}
