package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonesrussell/feedfilter/internal/domain"
)

// Keys used in the key-value store.
const (
	LearningStoreKey     = "feedfilter:learning"
	PreferenceProfileKey = "feedfilter:preference_profile"
)

// LearningStoreRepository persists the learning aggregate as one JSON
// value through the key-value port. A missing or corrupted stored value
// loads as an empty store, never an error.
type LearningStoreRepository struct {
	kv     KeyValueStore
	logger Logger
}

// NewLearningStoreRepository creates a repository over the given store.
func NewLearningStoreRepository(kv KeyValueStore, logger Logger) *LearningStoreRepository {
	return &LearningStoreRepository{kv: kv, logger: logger}
}

// Load reads the learning store. Transport failures propagate; an absent
// or undecodable value yields an empty store.
func (r *LearningStoreRepository) Load(ctx context.Context) (*domain.LearningData, error) {
	raw, err := r.kv.Get(ctx, LearningStoreKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.NewLearningData(), nil
		}
		return nil, fmt.Errorf("get learning store: %w", err)
	}

	var data domain.LearningData
	if err := json.Unmarshal(raw, &data); err != nil {
		r.logger.Warn("Corrupted learning store, starting empty", "error", err)
		return domain.NewLearningData(), nil
	}
	data.Normalize()
	return &data, nil
}

// Save writes the learning store.
func (r *LearningStoreRepository) Save(ctx context.Context, data *domain.LearningData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal learning store: %w", err)
	}
	if err := r.kv.Set(ctx, LearningStoreKey, raw); err != nil {
		return fmt.Errorf("set learning store: %w", err)
	}
	return nil
}

// Reset replaces the persisted aggregate with an empty store.
func (r *LearningStoreRepository) Reset(ctx context.Context) error {
	if err := r.Save(ctx, domain.NewLearningData()); err != nil {
		return fmt.Errorf("reset learning store: %w", err)
	}
	r.logger.Info("Learning store reset")
	return nil
}

// LoadProfile returns the stored preference-profile string, empty when
// none has been generated yet.
func (r *LearningStoreRepository) LoadProfile(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, PreferenceProfileKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get preference profile: %w", err)
	}
	return string(raw), nil
}

// SaveProfile stores the preference-profile string.
func (r *LearningStoreRepository) SaveProfile(ctx context.Context, profile string) error {
	if err := r.kv.Set(ctx, PreferenceProfileKey, []byte(profile)); err != nil {
		return fmt.Errorf("set preference profile: %w", err)
	}
	return nil
}
