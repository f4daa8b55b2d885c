// Package telemetry provides OpenTelemetry instrumentation for the
// feedfilter service. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "feedfilter"

// Metrics holds all feedfilter Prometheus metrics.
type Metrics struct {
	// Classification metrics
	PostsClassified      *prometheus.CounterVec
	PostsFiltered        prometheus.Counter
	PatternMatchDuration prometheus.Histogram
	PatternMatchHits     prometheus.Counter
	BatchSize            prometheus.Histogram

	// Learning metrics
	SignalsProcessed  *prometheus.CounterVec
	SignalsUnknown    prometheus.Counter
	LearningOverrides *prometheus.CounterVec

	// Remote classifier metrics
	RemoteRequests  prometheus.Counter
	RemoteFailures  prometheus.Counter
	RemoteFallbacks prometheus.Counter
	RemoteDuration  prometheus.Histogram
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initClassificationMetrics(m)
	initLearningMetrics(m)
	initRemoteMetrics(m)
	return m
}

func initClassificationMetrics(m *Metrics) {
	m.PostsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedfilter_posts_classified_total",
		Help: "Total posts classified, by winning category (none = no match)",
	}, []string{"category"})

	m.PostsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedfilter_posts_filtered_total",
		Help: "Total posts that received a filter decision",
	})

	m.PatternMatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedfilter_pattern_match_duration_seconds",
		Help:    "Time spent evaluating the pattern library against one post",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.PatternMatchHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedfilter_pattern_match_hits_total",
		Help: "Total pattern evaluations that produced a qualifying category",
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedfilter_batch_size",
		Help:    "Number of posts per classification batch",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 200},
	})
}

func initLearningMetrics(m *Metrics) {
	m.SignalsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedfilter_signals_processed_total",
		Help: "Total feedback signals applied to the learning store",
	}, []string{"signal"})

	m.SignalsUnknown = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedfilter_signals_unknown_total",
		Help: "Total feedback signals ignored because the name was unrecognized",
	})

	m.LearningOverrides = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedfilter_learning_overrides_total",
		Help: "Filter decisions suppressed by learning (trusted_author, low_confidence)",
	}, []string{"kind"})
}

func initRemoteMetrics(m *Metrics) {
	m.RemoteRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedfilter_remote_requests_total",
		Help: "Total requests sent to the remote rich classifier",
	})

	m.RemoteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedfilter_remote_failures_total",
		Help: "Total remote rich classifier requests that failed",
	})

	m.RemoteFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedfilter_remote_fallbacks_total",
		Help: "Total batches served by the local engine after a remote failure",
	})

	m.RemoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedfilter_remote_duration_seconds",
		Help:    "Remote rich classifier request duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})
}

// RecordClassification increments per-category classification counters.
func (p *Provider) RecordClassification(category string, filtered bool) {
	label := category
	if label == "" {
		label = "none"
	}
	p.Metrics.PostsClassified.WithLabelValues(label).Inc()
	if filtered {
		p.Metrics.PostsFiltered.Inc()
	}
}

// RecordPatternMatch records one pattern-library evaluation.
func (p *Provider) RecordPatternMatch(duration time.Duration, hit bool) {
	p.Metrics.PatternMatchDuration.Observe(duration.Seconds())
	if hit {
		p.Metrics.PatternMatchHits.Inc()
	}
}

// RecordBatch records the size of a classification batch.
func (p *Provider) RecordBatch(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// RecordSignal records a feedback signal, known or not.
func (p *Provider) RecordSignal(signal string, known bool) {
	if !known {
		p.Metrics.SignalsUnknown.Inc()
		return
	}
	p.Metrics.SignalsProcessed.WithLabelValues(signal).Inc()
}

// RecordLearningOverride records a filter decision suppressed by learning.
func (p *Provider) RecordLearningOverride(kind string) {
	p.Metrics.LearningOverrides.WithLabelValues(kind).Inc()
}

// RecordRemoteRequest records one remote rich classifier call.
func (p *Provider) RecordRemoteRequest(duration time.Duration, err error) {
	p.Metrics.RemoteRequests.Inc()
	p.Metrics.RemoteDuration.Observe(duration.Seconds())
	if err != nil {
		p.Metrics.RemoteFailures.Inc()
	}
}

// RecordRemoteFallback records a batch served locally after remote failure.
func (p *Provider) RecordRemoteFallback() {
	p.Metrics.RemoteFallbacks.Inc()
}
