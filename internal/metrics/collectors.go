package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"botbi/internal/domain/market"
	"botbi/pkg/logger"
)

// Querier is the subset of sqlx used by the collector
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// StoreCollector reports stored news volume and equities cache age at scrape time
type StoreCollector struct {
	log   *logger.Logger
	db    Querier
	cache market.CacheStore
	now   func() time.Time

	newsByCategory *prometheus.Desc
	news24h        *prometheus.Desc
	cacheAge       *prometheus.Desc
	cacheQuotes    *prometheus.Desc
}

// NewStoreCollector creates the collector. db or cache may be nil to skip their metrics.
func NewStoreCollector(log *logger.Logger, db Querier, cache market.CacheStore) *StoreCollector {
	return &StoreCollector{
		log:   log.Component("metrics_collector"),
		db:    db,
		cache: cache,
		now:   time.Now,

		newsByCategory: prometheus.NewDesc(
			"botbi_news_items_stored",
			"Stored news items by category",
			[]string{"category"}, nil,
		),
		news24h: prometheus.NewDesc(
			"botbi_news_items_stored_24h",
			"News items published in the last 24h",
			nil, nil,
		),
		cacheAge: prometheus.NewDesc(
			"botbi_equities_cache_age_seconds",
			"Age of the equities cache entry",
			nil, nil,
		),
		cacheQuotes: prometheus.NewDesc(
			"botbi_equities_cache_quotes",
			"Quotes held in the equities cache entry",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.newsByCategory
	ch <- c.news24h
	ch <- c.cacheAge
	ch <- c.cacheQuotes
}

// Collect implements prometheus.Collector
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.db != nil {
		c.collectCategoryStats(ctx, ch)
		c.collectRecentCount(ctx, ch)
	}
	if c.cache != nil {
		c.collectCacheAge(ctx, ch)
	}
}

type categoryStat struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}

func (c *StoreCollector) collectCategoryStats(ctx context.Context, ch chan<- prometheus.Metric) {
	var stats []categoryStat
	err := c.db.SelectContext(ctx, &stats, `
		SELECT category, COUNT(*) AS count
		FROM news_items
		GROUP BY category
	`)
	if err != nil {
		c.log.Warnw("Failed to collect category stats", "error", err)
		return
	}

	for _, stat := range stats {
		ch <- prometheus.MustNewConstMetric(c.newsByCategory, prometheus.GaugeValue, float64(stat.Count), stat.Category)
	}
}

func (c *StoreCollector) collectRecentCount(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int
	err := c.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM news_items
		WHERE published_at > $1
	`, c.now().Add(-24*time.Hour))
	if err != nil {
		c.log.Warnw("Failed to collect recent news count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.news24h, prometheus.GaugeValue, float64(count))
}

func (c *StoreCollector) collectCacheAge(ctx context.Context, ch chan<- prometheus.Metric) {
	entry, err := c.cache.Get(ctx)
	if err != nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.cacheAge, prometheus.GaugeValue, entry.Age(c.now()).Seconds())
	ch <- prometheus.MustNewConstMetric(c.cacheQuotes, prometheus.GaugeValue, float64(len(entry.Payload)))
}
