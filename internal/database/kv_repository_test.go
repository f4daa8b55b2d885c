package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/feedfilter/internal/storage"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestKVRepositoryRoundTrip(t *testing.T) {
	repo, err := NewKVRepository(openTestDB(t))
	if err != nil {
		t.Fatalf("NewKVRepository() error: %v", err)
	}
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want storage.ErrNotFound", err)
	}

	if err := repo.Set(ctx, "feedfilter:learning", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := repo.Get(ctx, "feedfilter:learning")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get() = %q", got)
	}

	// Upsert replaces the previous value.
	if err := repo.Set(ctx, "feedfilter:learning", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, _ = repo.Get(ctx, "feedfilter:learning")
	if string(got) != `{"a":2}` {
		t.Errorf("after upsert Get() = %q", got)
	}

	if err := repo.Delete(ctx, "feedfilter:learning"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.Get(ctx, "feedfilter:learning"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want storage.ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "feedfilter:learning"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
}

func TestKVRepositorySatisfiesPort(t *testing.T) {
	repo, err := NewKVRepository(openTestDB(t))
	if err != nil {
		t.Fatalf("NewKVRepository() error: %v", err)
	}
	var _ storage.KeyValueStore = repo
}
