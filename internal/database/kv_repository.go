package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/feedfilter/internal/storage"
)

// kvSchema works on both SQLite and PostgreSQL.
const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
`

// KVRepository is a sqlx-backed implementation of the key-value port.
// The upsert syntax relies on ON CONFLICT, supported by both drivers.
type KVRepository struct {
	db *sqlx.DB
}

// NewKVRepository creates the repository and ensures its table exists.
func NewKVRepository(db *sqlx.DB) (*KVRepository, error) {
	if _, err := db.Exec(kvSchema); err != nil {
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}
	return &KVRepository{db: db}, nil
}

// Get returns the value for key, or storage.ErrNotFound.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := r.db.Rebind(`SELECT value FROM kv_store WHERE key = ?`)
	err := r.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(value), nil
}

// Set stores value under key, replacing any previous value.
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	query := r.db.Rebind(`
		INSERT INTO kv_store (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`)
	if _, err := r.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	query := r.db.Rebind(`DELETE FROM kv_store WHERE key = ?`)
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
