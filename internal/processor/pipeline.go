// Package processor wires the classification pipeline: remote rich
// classification when configured, local pattern classification as the
// fallback, learning adjustments on every filter decision.
package processor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/feedfilter/internal/classifier"
	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/richclient"
	"github.com/jonesrussell/feedfilter/internal/storage"
	"github.com/jonesrussell/feedfilter/internal/telemetry"
)

const (
	defaultConcurrency    = 10
	defaultRecentFeedback = 20
)

// Logger defines the logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// FeedbackLister provides recent feedback examples for remote requests.
type FeedbackLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.FeedbackRecord, error)
}

// Pipeline classifies post batches. Posts have no ordering dependency
// between each other, so local classification runs on a bounded worker
// pool; results come back in input order.
type Pipeline struct {
	local        *classifier.Classifier
	adjuster     *classifier.Adjuster
	learningRepo *storage.LearningStoreRepository
	rich         *richclient.Client // optional
	history      FeedbackLister     // optional, only used for remote context
	telemetry    *telemetry.Provider
	logger       Logger
	concurrency  int
	feedbackN    int
}

// Config holds pipeline configuration.
type Config struct {
	Concurrency    int
	RecentFeedback int // examples attached to remote requests
}

// NewPipeline creates a pipeline. rich and history may be nil; the
// pipeline then always classifies locally.
func NewPipeline(
	local *classifier.Classifier,
	adjuster *classifier.Adjuster,
	learningRepo *storage.LearningStoreRepository,
	rich *richclient.Client,
	history FeedbackLister,
	tp *telemetry.Provider,
	logger Logger,
	cfg Config,
) *Pipeline {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	feedbackN := cfg.RecentFeedback
	if feedbackN <= 0 {
		feedbackN = defaultRecentFeedback
	}

	return &Pipeline{
		local:        local,
		adjuster:     adjuster,
		learningRepo: learningRepo,
		rich:         rich,
		history:      history,
		telemetry:    tp,
		logger:       logger,
		concurrency:  concurrency,
		feedbackN:    feedbackN,
	}
}

// ClassifyPosts classifies a batch and applies learning adjustments.
// It returns one result per input post, in input order. A remote failure
// is logged and served by the local engine instead of surfacing as an
// empty verdict.
func (p *Pipeline) ClassifyPosts(ctx context.Context, posts []domain.Post, settings domain.Settings) ([]domain.ClassificationResult, error) {
	if len(posts) == 0 {
		return []domain.ClassificationResult{}, nil
	}
	if p.telemetry != nil {
		var span trace.Span
		ctx, span = p.telemetry.StartSpan(ctx, "pipeline.classify_batch",
			attribute.Int("batch.size", len(posts)),
			attribute.String("sensitivity", string(settings.Sensitivity)),
		)
		defer span.End()
		p.telemetry.RecordBatch(len(posts))
	}

	data, err := p.learningRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if p.rich != nil {
		results, remoteErr := p.classifyRemote(ctx, posts, settings)
		if remoteErr == nil {
			return p.applyLearning(results, posts, data), nil
		}
		p.logger.Warn("Remote classification failed, falling back to local engine",
			"error", remoteErr, "batch_size", len(posts))
		if p.telemetry != nil {
			p.telemetry.RecordRemoteFallback()
		}
	}

	results := p.classifyLocal(ctx, posts, settings)
	return p.applyLearning(results, posts, data), nil
}

// classifyLocal runs the pattern classifier over the batch on a worker
// pool, preserving input order by index.
func (p *Pipeline) classifyLocal(ctx context.Context, posts []domain.Post, settings domain.Settings) []domain.ClassificationResult {
	results := make([]domain.ClassificationResult, len(posts))

	jobs := make(chan int, len(posts))
	var wg sync.WaitGroup
	for w := 0; w < p.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				batch := p.local.ClassifyPosts(posts[i:i+1], settings)
				results[i] = batch[0]
			}
		}()
	}

	for i := range posts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// classifyRemote sends the batch to the rich classifier along with the
// stored preference profile and recent feedback examples.
func (p *Pipeline) classifyRemote(ctx context.Context, posts []domain.Post, settings domain.Settings) ([]domain.ClassificationResult, error) {
	req := &richclient.ClassifyRequest{
		Posts:       posts,
		Categories:  settings.Categories,
		Sensitivity: domain.ParseSensitivity(string(settings.Sensitivity)),
	}

	if profile, err := p.learningRepo.LoadProfile(ctx); err == nil {
		req.PreferenceProfile = profile
	} else {
		p.logger.Warn("Preference profile unavailable, sending request without it", "error", err)
	}
	if p.history != nil {
		if recent, err := p.history.ListRecent(ctx, p.feedbackN); err == nil {
			req.RecentFeedback = recent
		}
	}

	start := time.Now()
	remote, err := p.rich.Classify(ctx, req)
	if p.telemetry != nil {
		p.telemetry.RecordRemoteRequest(time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	// Index remote verdicts by post id; posts the service skipped fall
	// back to a non-filtering result.
	byID := make(map[string]richclient.RemoteResult, len(remote))
	for _, r := range remote {
		byID[r.ID] = r
	}

	results := make([]domain.ClassificationResult, len(posts))
	for i, post := range posts {
		verdict, ok := byID[post.ID]
		if !ok {
			results[i] = domain.ClassificationResult{
				PostID: post.ID,
				Filter: false,
				Reason: domain.NoMatchReason,
			}
			continue
		}
		results[i] = domain.ClassificationResult{
			PostID:        post.ID,
			Filter:        verdict.Filter,
			Category:      verdict.Category,
			CategoryLabel: settings.CategoryLabel(verdict.Category),
			Confidence:    verdict.Confidence,
			Reason:        verdict.Reason,
		}
	}
	return results, nil
}

// applyLearning runs the adjustment engine over every filtering result.
func (p *Pipeline) applyLearning(results []domain.ClassificationResult, posts []domain.Post, data *domain.LearningData) []domain.ClassificationResult {
	for i := range results {
		if !results[i].Filter {
			continue
		}
		adjusted := p.adjuster.ApplyLearning(&results[i], posts[i].Author, posts[i].Content, data)
		if adjusted != nil {
			results[i] = *adjusted
		}
	}
	return results
}
