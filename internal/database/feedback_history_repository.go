package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/feedfilter/internal/domain"
)

// excerptMaxLength bounds how much post content is archived per feedback
// event. The history only exists to give the profile summarizer recent
// examples, not to retain full posts.
const excerptMaxLength = 280

const feedbackSchemaSQLite = `
	CREATE TABLE IF NOT EXISTS feedback_history (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		signal          TEXT NOT NULL,
		author          TEXT NOT NULL,
		content_excerpt TEXT NOT NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

const feedbackSchemaPostgres = `
	CREATE TABLE IF NOT EXISTS feedback_history (
		id              SERIAL PRIMARY KEY,
		signal          TEXT NOT NULL,
		author          TEXT NOT NULL,
		content_excerpt TEXT NOT NULL,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// FeedbackHistoryRepository archives recent feedback events so the
// preference-profile summarizer can send examples to the rich classifier.
type FeedbackHistoryRepository struct {
	db *sqlx.DB
}

// NewFeedbackHistoryRepository creates the repository and ensures its
// table exists for the connected driver.
func NewFeedbackHistoryRepository(db *sqlx.DB) (*FeedbackHistoryRepository, error) {
	schema := feedbackSchemaSQLite
	if db.DriverName() == DriverPostgres {
		schema = feedbackSchemaPostgres
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create feedback_history table: %w", err)
	}
	return &FeedbackHistoryRepository{db: db}, nil
}

// Record archives one feedback event. Content is truncated to an excerpt.
func (r *FeedbackHistoryRepository) Record(ctx context.Context, signal, author, content string) error {
	excerpt := content
	if len(excerpt) > excerptMaxLength {
		// Byte truncation can split a rune; drop the partial sequence.
		excerpt = strings.ToValidUTF8(excerpt[:excerptMaxLength], "")
	}

	query := r.db.Rebind(`
		INSERT INTO feedback_history (signal, author, content_excerpt)
		VALUES (?, ?, ?)
	`)
	if _, err := r.db.ExecContext(ctx, query, signal, author, excerpt); err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	return nil
}

// ListRecent returns the most recent feedback records, newest first.
func (r *FeedbackHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.FeedbackRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	records := []domain.FeedbackRecord{}
	query := r.db.Rebind(`
		SELECT id, signal, author, content_excerpt, created_at
		FROM feedback_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list recent feedback: %w", err)
	}
	return records, nil
}

// Prune deletes records beyond the newest keep entries.
func (r *FeedbackHistoryRepository) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	query := r.db.Rebind(`
		DELETE FROM feedback_history
		WHERE id NOT IN (
			SELECT id FROM feedback_history ORDER BY created_at DESC, id DESC LIMIT ?
		)
	`)
	if _, err := r.db.ExecContext(ctx, query, keep); err != nil {
		return fmt.Errorf("prune feedback history: %w", err)
	}
	return nil
}
