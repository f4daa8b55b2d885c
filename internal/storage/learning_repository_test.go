package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/jonesrussell/feedfilter/internal/domain"
)

type capturingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *capturingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *capturingLogger) has(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func (l *capturingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *capturingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *capturingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *capturingLogger) Error(msg string, _ ...any) { l.record(msg) }

func TestLearningStoreRepositoryLoadMissing(t *testing.T) {
	repo := NewLearningStoreRepository(NewMemoryStore(), &capturingLogger{})

	data, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data == nil || data.AuthorReputation == nil || data.PatternStats == nil {
		t.Fatalf("missing store did not load as empty aggregate: %+v", data)
	}
	if len(data.AuthorReputation) != 0 || len(data.Keywords.Keep) != 0 {
		t.Errorf("empty store not empty: %+v", data)
	}
}

func TestLearningStoreRepositoryLoadCorrupt(t *testing.T) {
	kv := NewMemoryStore()
	logger := &capturingLogger{}
	repo := NewLearningStoreRepository(kv, logger)
	ctx := context.Background()

	if err := kv.Set(ctx, LearningStoreKey, []byte("{not json")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data.AuthorReputation) != 0 {
		t.Errorf("corrupt store did not load empty: %+v", data)
	}
	if !logger.has("Corrupted learning store, starting empty") {
		t.Error("corruption not logged")
	}
}

func TestLearningStoreRepositoryRoundTrip(t *testing.T) {
	repo := NewLearningStoreRepository(NewMemoryStore(), &capturingLogger{})
	ctx := context.Background()

	data := domain.NewLearningData()
	data.AuthorReputation["alice"] = 7
	data.Keywords.Keep = []string{"golang"}
	data.Keywords.Filter = []string{"webinar"}
	data.PatternStats["ai.delve"] = domain.PatternStat{Hits: 2, Misses: 1}

	if err := repo.Save(ctx, data); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.AuthorReputation["alice"] != 7 {
		t.Errorf("reputation lost: %+v", loaded.AuthorReputation)
	}
	if len(loaded.Keywords.Keep) != 1 || loaded.Keywords.Keep[0] != "golang" {
		t.Errorf("keep list lost: %+v", loaded.Keywords)
	}
	if got := loaded.PatternStats["ai.delve"]; got.Hits != 2 || got.Misses != 1 {
		t.Errorf("pattern stats lost: %+v", got)
	}
}

func TestLearningStoreRepositoryReset(t *testing.T) {
	repo := NewLearningStoreRepository(NewMemoryStore(), &capturingLogger{})
	ctx := context.Background()

	data := domain.NewLearningData()
	data.AuthorReputation["alice"] = -40
	if err := repo.Save(ctx, data); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.AuthorReputation) != 0 {
		t.Errorf("reset did not clear store: %+v", loaded)
	}
}

func TestLearningStoreRepositoryProfile(t *testing.T) {
	repo := NewLearningStoreRepository(NewMemoryStore(), &capturingLogger{})
	ctx := context.Background()

	profile, err := repo.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile() error: %v", err)
	}
	if profile != "" {
		t.Errorf("missing profile = %q, want empty", profile)
	}

	const text = "Prefers technical deep dives, dislikes promotional content."
	if err := repo.SaveProfile(ctx, text); err != nil {
		t.Fatalf("SaveProfile() error: %v", err)
	}
	profile, err = repo.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile() error: %v", err)
	}
	if profile != text {
		t.Errorf("LoadProfile() = %q, want %q", profile, text)
	}
}
