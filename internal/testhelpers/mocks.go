// Package testhelpers provides shared test utilities for the feedfilter service.
package testhelpers

import (
	"context"
	"sync"

	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/storage"
)

// MockKeyValueStore implements storage.KeyValueStore for testing.
type MockKeyValueStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailGet and FailSet inject errors when non-nil.
	FailGet error
	FailSet error
}

// NewMockKeyValueStore creates an empty mock store.
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{values: make(map[string][]byte)}
}

// Get retrieves a value by key.
func (m *MockKeyValueStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set stores a value under key.
func (m *MockKeyValueStore) Set(_ context.Context, key string, value []byte) error {
	if m.FailSet != nil {
		return m.FailSet
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a key.
func (m *MockKeyValueStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockLearningRepository implements the classifier's LearningRepository
// over an in-memory learning store.
type MockLearningRepository struct {
	mu   sync.Mutex
	data *domain.LearningData

	// FailLoad and FailSave inject errors when non-nil.
	FailLoad error
	FailSave error

	SaveCount int
}

// NewMockLearningRepository creates a repository with an empty store.
func NewMockLearningRepository() *MockLearningRepository {
	return &MockLearningRepository{data: domain.NewLearningData()}
}

// Load returns a copy-by-value view of the current learning data.
func (m *MockLearningRepository) Load(_ context.Context) (*domain.LearningData, error) {
	if m.FailLoad != nil {
		return nil, m.FailLoad
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

// Save replaces the stored learning data.
func (m *MockLearningRepository) Save(_ context.Context, data *domain.LearningData) error {
	if m.FailSave != nil {
		return m.FailSave
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.SaveCount++
	return nil
}

// Data returns the stored learning data for assertions.
func (m *MockLearningRepository) Data() *domain.LearningData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// MockLogger captures log calls for assertions.
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
}

// NewMockLogger creates an empty mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
}

// Debug records a debug message.
func (m *MockLogger) Debug(msg string, _ ...interface{}) { m.record(msg) }

// Info records an info message.
func (m *MockLogger) Info(msg string, _ ...interface{}) { m.record(msg) }

// Warn records a warning message.
func (m *MockLogger) Warn(msg string, _ ...interface{}) { m.record(msg) }

// Error records an error message.
func (m *MockLogger) Error(msg string, _ ...interface{}) { m.record(msg) }

// Contains reports whether a recorded message equals msg.
func (m *MockLogger) Contains(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, recorded := range m.Messages {
		if recorded == msg {
			return true
		}
	}
	return false
}
