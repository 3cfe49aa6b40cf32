package bootstrap

import (
	"botbi/internal/workers"
	"botbi/internal/workers/ingestion"
	"botbi/internal/workers/marketdata"
	"botbi/internal/workers/newsletter"
)

// provideWorkers creates the scheduler hosting ingestion, newsletter and market snapshot workers
func provideWorkers(c *Container) *workers.Scheduler {
	cfg := c.Config.Workers
	scheduler := workers.NewScheduler(c.Log)

	scheduler.RegisterWorker(ingestion.NewWorker(
		c.Adapters.Feeds,
		c.Repos.News,
		c.Services.Enrichment,
		cfg.IngestionInterval,
		cfg.IngestionEnabled,
		c.Log,
	))

	scheduler.RegisterWorker(newsletter.NewWorker(
		c.Repos.News,
		c.Services.Curation,
		c.Adapters.Sender,
		newsletter.Config{
			Recipients: c.Config.Newsletter.Recipients,
			PoolSize:   c.Config.Newsletter.PoolSize,
			Limit:      c.Config.Newsletter.Limit,
		},
		cfg.NewsletterInterval,
		cfg.NewsletterEnabled,
		c.Log,
	))

	scheduler.RegisterWorker(marketdata.NewSnapshotWorker(
		c.Services.MarketData,
		cfg.MarketSnapshotInterval,
		cfg.MarketSnapshotEnabled,
		c.Log,
	))

	return scheduler
}
