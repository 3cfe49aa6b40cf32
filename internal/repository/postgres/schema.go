package postgres

import (
	"context"

	"botbi/pkg/errors"
)

const newsItemsSchema = `
CREATE TABLE IF NOT EXISTS news_items (
	id               UUID PRIMARY KEY,
	title            TEXT NOT NULL,
	original_title   TEXT NOT NULL,
	category         TEXT NOT NULL DEFAULT 'General',
	summary          TEXT NOT NULL,
	original_content TEXT NOT NULL DEFAULT '',
	source_url       TEXT NOT NULL DEFAULT '',
	published_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS news_items_original_title_idx ON news_items (original_title);
CREATE INDEX IF NOT EXISTS news_items_published_at_idx ON news_items (published_at DESC);
`

// EnsureSchema creates the news tables when missing
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.ExecContext(ctx, newsItemsSchema); err != nil {
		return errors.Wrap(err, "create news_items schema")
	}
	return nil
}
