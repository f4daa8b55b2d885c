// Package storage defines the key-value persistence port the learning
// store is saved through, plus repositories layered on top of it.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is the persistence interface supplied by the host
// application. Implementations must be safe for concurrent use. The port
// offers no transactional guarantee; callers that need atomic
// read-modify-write cycles serialize them externally.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Logger defines the logging interface for storage components.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
