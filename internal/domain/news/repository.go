package news

import (
	"context"
)

// Repository defines persistence for enriched news items (PostgreSQL)
type Repository interface {
	// ExistsByTitle reports whether an item with the original feed title was already stored
	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// Save inserts an enriched item
	Save(ctx context.Context, item *EnrichedItem) error

	// ListRecent returns the newest items by published time, newest first
	ListRecent(ctx context.Context, limit int) ([]EnrichedItem, error)
}
