package ingestion

import (
	"context"
	"time"

	"botbi/internal/adapters/feeds"
	"botbi/internal/domain/news"
	"botbi/internal/metrics"
	"botbi/internal/workers"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// Enricher turns a raw feed item into a stored item. It never fails.
type Enricher interface {
	Enrich(ctx context.Context, raw news.RawItem) news.EnrichedItem
}

// Stats summarizes one ingestion run
type Stats struct {
	Fetched int
	Skipped int
	Saved   int
	Failed  int
}

// Worker pulls feeds, skips titles already stored, enriches and saves the rest
type Worker struct {
	*workers.BaseWorker
	source   feeds.Source
	repo     news.Repository
	enricher Enricher
}

// NewWorker creates the ingestion worker
func NewWorker(
	source feeds.Source,
	repo news.Repository,
	enricher Enricher,
	interval time.Duration,
	enabled bool,
	log *logger.Logger,
) *Worker {
	return &Worker{
		BaseWorker: workers.NewBaseWorker("news_ingestion", interval, enabled, log),
		source:     source,
		repo:       repo,
		enricher:   enricher,
	}
}

// Run executes one ingestion pass
func (w *Worker) Run(ctx context.Context) error {
	_, err := w.Ingest(ctx)
	return err
}

// Ingest fetches, deduplicates, enriches and stores items. Per-item failures are logged and
// counted; only a failed fetch or a cancelled ctx is returned as an error.
func (w *Worker) Ingest(ctx context.Context) (Stats, error) {
	var stats Stats

	raws, err := w.source.FetchRawItems(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "fetch feeds")
	}
	stats.Fetched = len(raws)

	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			w.Log().Infow("Ingestion interrupted by shutdown", "saved", stats.Saved)
			return stats, err
		}

		if raw.Title == "" || seen[raw.Title] {
			stats.Skipped++
			continue
		}
		seen[raw.Title] = true

		exists, err := w.repo.ExistsByTitle(ctx, raw.Title)
		if err != nil {
			w.Log().Warnw("Dedupe lookup failed, skipping item", "title", raw.Title, "error", err)
			stats.Failed++
			continue
		}
		if exists {
			stats.Skipped++
			continue
		}

		item := w.enricher.Enrich(ctx, raw)
		if err := w.repo.Save(ctx, &item); err != nil {
			if errors.Is(err, errors.ErrAlreadyExists) {
				stats.Skipped++
				continue
			}
			w.Log().Errorw("Failed to save news item", "title", raw.Title, "error", err)
			stats.Failed++
			continue
		}

		w.Log().Debugw("Stored news item", "title", item.Title, "category", item.Category)
		stats.Saved++
	}

	metrics.RecordNewsItems("saved", stats.Saved)
	metrics.RecordNewsItems("skipped", stats.Skipped)
	metrics.RecordNewsItems("failed", stats.Failed)

	w.Log().Infow("Ingestion complete",
		"fetched", stats.Fetched,
		"saved", stats.Saved,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}
