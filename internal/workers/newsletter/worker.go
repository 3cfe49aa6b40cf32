package newsletter

import (
	"context"
	"time"

	"botbi/internal/domain/news"
	"botbi/internal/metrics"
	"botbi/internal/workers"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// Subject is the digest subject line
const Subject = "Top financial news by impact"

// Curator ranks a pool of stored items. It never fails.
type Curator interface {
	Curate(ctx context.Context, pool []news.EnrichedItem, limit int) news.RankedSelection
}

// Config sizes the newsletter
type Config struct {
	Recipients []string
	PoolSize   int
	Limit      int
}

// Worker builds the daily digest from recently stored items and hands it to the sender
type Worker struct {
	*workers.BaseWorker
	repo    news.Repository
	curator Curator
	sender  Sender
	cfg     Config
	now     func() time.Time
}

// NewWorker creates the newsletter worker
func NewWorker(
	repo news.Repository,
	curator Curator,
	sender Sender,
	cfg Config,
	interval time.Duration,
	enabled bool,
	log *logger.Logger,
) *Worker {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 30
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	return &Worker{
		BaseWorker: workers.NewBaseWorker("newsletter", interval, enabled, log),
		repo:       repo,
		curator:    curator,
		sender:     sender,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run sends one digest
func (w *Worker) Run(ctx context.Context) error {
	if len(w.cfg.Recipients) == 0 {
		w.Log().Warn("No newsletter recipients configured, skipping")
		return nil
	}

	pool, err := w.repo.ListRecent(ctx, w.cfg.PoolSize)
	if err != nil {
		return errors.Wrap(err, "list recent news")
	}
	if len(pool) == 0 {
		w.Log().Info("No stored news, nothing to send")
		return nil
	}

	digest := Digest{
		Subject:     Subject,
		Items:       w.curator.Curate(ctx, pool, w.cfg.Limit),
		GeneratedAt: w.now(),
	}

	var errs errors.MultiError
	for _, recipient := range w.cfg.Recipients {
		err := w.sender.Send(ctx, recipient, digest)
		metrics.RecordNewsletterDispatch(err)
		if err != nil {
			w.Log().Errorw("Newsletter dispatch failed", "recipient", recipient, "error", err)
			errs.Add(errors.Wrapf(err, "send to %s", recipient))
		}
	}

	w.Log().Infow("Newsletter dispatched",
		"pool", len(pool),
		"items", len(digest.Items),
		"recipients", len(w.cfg.Recipients),
		"failed", len(errs.Errors),
	)

	return errs.ToError()
}
