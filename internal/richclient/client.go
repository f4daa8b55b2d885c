// Package richclient is the HTTP client for the remote rich classifier:
// a language-model service that classifies post batches and summarizes
// the user's preference profile. The local engine is a drop-in fallback
// for its classification path.
package richclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/feedfilter/internal/classifier"
	"github.com/jonesrussell/feedfilter/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 2
	defaultBurst   = 4
)

// ErrUnavailable indicates the rich classifier service could not be
// reached or answered with an error. Callers must treat this distinctly
// from "no match": it means fall back to the local engine, not "nothing
// to filter".
var ErrUnavailable = errors.New("rich classifier unavailable")

// ClassifyRequest is the request body for POST /classify.
type ClassifyRequest struct {
	Posts             []domain.Post                    `json:"posts"`
	Categories        map[string]domain.CategoryConfig `json:"categories"`
	Sensitivity       domain.Sensitivity               `json:"sensitivity"`
	PreferenceProfile string                           `json:"preference_profile,omitempty"`
	RecentFeedback    []domain.FeedbackRecord          `json:"recent_feedback,omitempty"`
}

// ClassifyResponse is the response body from POST /classify.
type ClassifyResponse struct {
	Results []RemoteResult `json:"results"`
}

// RemoteResult is the per-post verdict returned by the rich classifier.
type RemoteResult struct {
	ID         string  `json:"id"`
	Filter     bool    `json:"filter"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// SummarizeRequest is the request body for POST /summarize-profile.
type SummarizeRequest struct {
	RecentFeedback []domain.FeedbackRecord `json:"recent_feedback"`
	Keywords       domain.KeywordLists     `json:"keywords"`
}

type summarizeResponse struct {
	Profile string `json:"profile"`
}

// Client calls the rich classifier service. Requests are rate limited.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	RPS     int
	Burst   int
}

// NewClient creates a rich classifier client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Classify sends a post batch for remote classification. Post content is
// sanitized before serialization so ill-formed text cannot corrupt the
// request body.
func (c *Client) Classify(ctx context.Context, req *ClassifyRequest) ([]RemoteResult, error) {
	sanitized := make([]domain.Post, len(req.Posts))
	for i, p := range req.Posts {
		p.Content = classifier.SanitizeContent(p.Content)
		sanitized[i] = p
	}
	outbound := *req
	outbound.Posts = sanitized

	var resp ClassifyResponse
	if err := c.post(ctx, "/classify", &outbound, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// SummarizeProfile asks the service to distill recent feedback into a
// free-text preference profile.
func (c *Client) SummarizeProfile(ctx context.Context, req *SummarizeRequest) (string, error) {
	var resp summarizeResponse
	if err := c.post(ctx, "/summarize-profile", req, &resp); err != nil {
		return "", err
	}
	return resp.Profile, nil
}

func (c *Client) post(ctx context.Context, path string, body, respPtr any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: service returned %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(respPtr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks if the rich classifier service is reachable.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unhealthy status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
