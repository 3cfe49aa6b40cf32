package postgres

import (
	"context"

	"github.com/lib/pq"

	"botbi/internal/domain/news"
	"botbi/pkg/errors"
)

// Compile-time check
var _ news.Repository = (*NewsRepository)(nil)

// NewsRepository implements news.Repository using sqlx
type NewsRepository struct {
	db DBTX
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{db: db}
}

// ExistsByTitle checks the original feed title
func (r *NewsRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM news_items WHERE original_title = $1)`, title)
	if err != nil {
		return false, errors.Wrap(err, "check news title")
	}
	return exists, nil
}

// Save inserts an enriched item. A duplicate original title returns ErrAlreadyExists.
func (r *NewsRepository) Save(ctx context.Context, item *news.EnrichedItem) error {
	query := `
		INSERT INTO news_items (
			id, title, original_title, category, summary,
			original_content, source_url, published_at
		) VALUES (
			:id, :title, :original_title, :category, :summary,
			:original_content, :source_url, :published_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errors.Wrapf(errors.ErrAlreadyExists, "news item %q", item.OriginalTitle)
		}
		return errors.Wrap(err, "insert news item")
	}
	return nil
}

// ListRecent returns the newest items, newest first
func (r *NewsRepository) ListRecent(ctx context.Context, limit int) ([]news.EnrichedItem, error) {
	var items []news.EnrichedItem

	query := `
		SELECT id, title, original_title, category, summary,
		       original_content, source_url, published_at
		FROM news_items
		ORDER BY published_at DESC, created_at DESC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, errors.Wrap(err, "list recent news")
	}
	return items, nil
}
