package processor

import (
	"context"
	"time"

	"github.com/jonesrussell/feedfilter/internal/richclient"
	"github.com/jonesrussell/feedfilter/internal/storage"
)

const (
	defaultDebounce       = 2 * time.Minute
	profileFeedbackWindow = 50
)

// ProfileScheduler regenerates the free-text preference profile from
// recent feedback. The feedback processor only emits "regeneration due"
// events; the scheduler owns the debounce and the network call, keeping
// the feedback write path synchronous and testable.
type ProfileScheduler struct {
	due          <-chan struct{}
	rich         *richclient.Client
	history      FeedbackLister
	learningRepo *storage.LearningStoreRepository
	logger       Logger
	debounce     time.Duration
}

// NewProfileScheduler creates a scheduler consuming the given event
// stream. debounce <= 0 uses the default.
func NewProfileScheduler(
	due <-chan struct{},
	rich *richclient.Client,
	history FeedbackLister,
	learningRepo *storage.LearningStoreRepository,
	logger Logger,
	debounce time.Duration,
) *ProfileScheduler {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &ProfileScheduler{
		due:          due,
		rich:         rich,
		history:      history,
		learningRepo: learningRepo,
		logger:       logger,
		debounce:     debounce,
	}
}

// Run consumes regeneration events until the context is cancelled.
// Events arriving during the debounce window coalesce into one
// regeneration.
func (s *ProfileScheduler) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-s.due:
			if timer == nil {
				timer = time.NewTimer(s.debounce)
				fire = timer.C
			}
		case <-fire:
			timer = nil
			fire = nil
			s.regenerate(ctx)
		}
	}
}

// regenerate builds a summarization request from recent feedback and the
// learned keyword lists, then stores the returned profile. Failures are
// logged; the next feedback event schedules another attempt.
func (s *ProfileScheduler) regenerate(ctx context.Context) {
	if s.history == nil {
		s.logger.Debug("Profile regeneration skipped, no feedback history backend")
		return
	}

	recent, err := s.history.ListRecent(ctx, profileFeedbackWindow)
	if err != nil {
		s.logger.Warn("Profile regeneration skipped, history unavailable", "error", err)
		return
	}
	if len(recent) == 0 {
		return
	}

	data, err := s.learningRepo.Load(ctx)
	if err != nil {
		s.logger.Warn("Profile regeneration skipped, learning store unavailable", "error", err)
		return
	}

	profile, err := s.rich.SummarizeProfile(ctx, &richclient.SummarizeRequest{
		RecentFeedback: recent,
		Keywords:       data.Keywords,
	})
	if err != nil {
		s.logger.Warn("Profile summarization failed", "error", err)
		return
	}

	if err := s.learningRepo.SaveProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to store preference profile", "error", err)
		return
	}

	s.logger.Info("Preference profile regenerated",
		"feedback_examples", len(recent),
		"profile_length", len(profile),
	)
}
