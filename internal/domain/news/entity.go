package news

import (
	"time"
)

// Category is the editorial section an enriched item is filed under
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryBusiness   Category = "Business"
	CategoryMarkets    Category = "Markets"
	CategoryEconomy    Category = "Economy"
	CategoryCrypto     Category = "Crypto"
	CategoryGeneral    Category = "General"
)

// Categories lists the known categories in prompt order
var Categories = []Category{
	CategoryTechnology,
	CategoryBusiness,
	CategoryMarkets,
	CategoryEconomy,
	CategoryCrypto,
	CategoryGeneral,
}

// IsKnown reports whether c is one of the fixed categories.
// Enrichment stores whatever the model returned; renderers may use this to group.
func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// SummaryUnavailable is stored when enrichment could not produce a summary
const SummaryUnavailable = "Summary unavailable."

// RawItem is a news entry as it came out of a feed
type RawItem struct {
	Title       string
	Link        string
	Body        string
	PublishedAt time.Time
}

// EnrichedItem is a stored news item with model-produced title, category and summary.
// OriginalTitle keeps the feed title for deduplication.
type EnrichedItem struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	OriginalTitle   string    `db:"original_title"`
	Category        Category  `db:"category"`
	Summary         string    `db:"summary"`
	OriginalContent string    `db:"original_content"`
	SourceURL       string    `db:"source_url"`
	PublishedAt     time.Time `db:"published_at"`
}

// RankedSelection is the curated subset of a pool, best first
type RankedSelection []EnrichedItem

// IDs returns the item ids in rank order
func (s RankedSelection) IDs() []string {
	ids := make([]string, len(s))
	for i, item := range s {
		ids[i] = item.ID
	}
	return ids
}
