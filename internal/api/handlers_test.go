package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/feedfilter/internal/classifier"
	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/processor"
	"github.com/jonesrussell/feedfilter/internal/storage"
	"github.com/jonesrussell/feedfilter/internal/testhelpers"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.LearningStoreRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := testhelpers.NewMockLogger()
	repo := storage.NewLearningStoreRepository(storage.NewMemoryStore(), logger)
	library := classifier.DefaultLibrary()
	local := classifier.NewClassifier(library, logger, nil)
	adjuster := classifier.NewAdjuster(logger, nil)
	feedback := classifier.NewFeedbackProcessor(repo, logger, nil)
	pipeline := processor.NewPipeline(local, adjuster, repo, nil, nil, nil, logger, processor.Config{})

	defaults := domain.Settings{
		Categories:  make(map[string]domain.CategoryConfig),
		Sensitivity: domain.SensitivityMedium,
	}
	for _, cat := range library.Categories() {
		defaults.Categories[cat.ID] = domain.CategoryConfig{Enabled: true, Label: cat.Label}
	}

	handler := NewHandler(pipeline, feedback, repo, nil, library, defaults, logger)
	router := gin.New()
	RegisterRoutes(router, handler, nil)
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClassifyEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/classify", ClassifyRequest{
		Post: domain.Post{
			ID:      "p1",
			Content: "In today's fast-paced world, we need to adapt.",
			Author:  "Alice",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result domain.ClassificationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Filter || result.Category != "ai_generated" {
		t.Errorf("result = %+v, want filtered ai_generated", result)
	}
}

func TestClassifyEndpointCustomSettings(t *testing.T) {
	router, _ := newTestRouter(t)

	// Low sensitivity needs two matches; a single pattern hit passes.
	w := doJSON(t, router, http.MethodPost, "/api/v1/classify", ClassifyRequest{
		Post: domain.Post{ID: "p1", Content: "In today's fast-paced world, we need to adapt."},
		Settings: &domain.Settings{
			Categories: map[string]domain.CategoryConfig{
				"ai_generated": {Enabled: true},
			},
			Sensitivity: domain.SensitivityLow,
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var result domain.ClassificationResult
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	if result.Filter {
		t.Errorf("low sensitivity filtered on one match: %+v", result)
	}
}

func TestClassifyEndpointBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestClassifyBatchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/classify/batch", ClassifyBatchRequest{
		Posts: []domain.Post{
			{ID: "p1", Content: "Rise and grind! No days off."},
			{ID: "p2", Content: "Had a nice lunch with colleagues today."},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp ClassifyBatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Results) != 2 {
		t.Fatalf("total = %d, results = %d", resp.Total, len(resp.Results))
	}
	if !resp.Results[0].Filter || resp.Results[0].Category != "hustle_culture" {
		t.Errorf("p1 = %+v", resp.Results[0])
	}
	if resp.Results[1].Filter {
		t.Errorf("p2 = %+v", resp.Results[1])
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/feedback", FeedbackRequest{
		Signal:          "filterApproved",
		Author:          "Seller",
		Content:         "join my webinar masterclass",
		MatchedPatterns: []string{"promo.webinar"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	data, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data.AuthorReputation["seller"] != -1 {
		t.Errorf("reputation = %d, want -1", data.AuthorReputation["seller"])
	}
	if got := data.PatternStats["promo.webinar"]; got.Hits != 1 {
		t.Errorf("pattern stats = %+v, want 1 hit", got)
	}
}

func TestFeedbackEndpointUnknownSignal(t *testing.T) {
	router, repo := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/feedback", FeedbackRequest{
		Signal: "superliked",
		Author: "Alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unknown signal status = %d, want 200", w.Code)
	}

	data, _ := repo.Load(context.Background())
	if len(data.AuthorReputation) != 0 {
		t.Errorf("unknown signal mutated the store: %+v", data)
	}
}

func TestLearningEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	// Seed through the feedback endpoint.
	doJSON(t, router, http.MethodPost, "/api/v1/feedback", FeedbackRequest{
		Signal: "hidden", Author: "Grinder",
	})

	w := doJSON(t, router, http.MethodGet, "/api/v1/learning", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET learning status = %d", w.Code)
	}
	var data domain.LearningData
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode learning data: %v", err)
	}
	if data.AuthorReputation["grinder"] != -10 {
		t.Errorf("reputation = %d, want -10", data.AuthorReputation["grinder"])
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/learning", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE learning status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/learning", nil)
	data = domain.LearningData{} // fresh value: Unmarshal merges into non-nil maps
	_ = json.Unmarshal(w.Body.Bytes(), &data)
	if len(data.AuthorReputation) != 0 {
		t.Errorf("learning store not reset: %+v", data)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp CategoriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 7 {
		t.Errorf("total = %d, want 7", resp.Total)
	}
	for _, cat := range resp.Categories {
		if cat.ID == "" || cat.Label == "" || cat.Patterns == 0 {
			t.Errorf("incomplete category: %+v", cat)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := doJSON(t, router, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/ready", nil); w.Code != http.StatusOK {
		t.Errorf("ready status = %d", w.Code)
	}
}
