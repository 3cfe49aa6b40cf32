package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "botbi_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "botbi_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Reasoning metrics
	ReasonerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_reasoner_calls_total",
			Help: "Total number of reasoning service calls",
		},
		[]string{"operation", "model", "status"}, // operation: enrich|curate; status: success|error
	)

	ReasonerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "botbi_reasoner_latency_seconds",
			Help:    "Reasoning call latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"operation", "model"},
	)

	PipelineFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_pipeline_fallbacks_total",
			Help: "Times a pipeline substituted its fallback result",
		},
		[]string{"pipeline", "reason"}, // reason: call_failed|unparsed|no_valid_ids
	)

	// Market data metrics
	MarketTierServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_market_tier_served_total",
			Help: "Snapshots served per asset class and tier",
		},
		[]string{"asset", "tier"}, // asset: equities|crypto
	)

	MarketUpstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_market_upstream_calls_total",
			Help: "Market data provider calls",
		},
		[]string{"provider", "status"},
	)

	MarketUpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "botbi_market_upstream_latency_seconds",
			Help:    "Market data provider latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3},
		},
		[]string{"provider"},
	)

	QuotePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "botbi_quote_price_usd",
			Help: "Last served price per symbol",
		},
		[]string{"asset", "symbol"},
	)

	QuoteChange = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "botbi_quote_change_percent",
			Help: "Last served 24h change per symbol",
		},
		[]string{"asset", "symbol"},
	)

	// News metrics
	NewsItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_news_items_total",
			Help: "News items seen by ingestion",
		},
		[]string{"result"}, // result: fetched|skipped|saved|failed
	)

	NewsletterDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "botbi_newsletter_dispatches_total",
			Help: "Newsletter dispatches per recipient",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			WorkerExecutions,
			WorkerDuration,
			WorkerLastRun,
			ReasonerCalls,
			ReasonerLatency,
			PipelineFallbacks,
			MarketTierServed,
			MarketUpstreamCalls,
			MarketUpstreamLatency,
			QuotePrice,
			QuoteChange,
			NewsItems,
			NewsletterDispatches,
		)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	WorkerExecutions.WithLabelValues(worker, status(err)).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordReasonerCall records one reasoning call
func RecordReasonerCall(operation, model string, latency time.Duration, err error) {
	ReasonerCalls.WithLabelValues(operation, model, status(err)).Inc()
	ReasonerLatency.WithLabelValues(operation, model).Observe(latency.Seconds())
}

// RecordFallback records a pipeline falling back to its default result
func RecordFallback(pipeline, reason string) {
	PipelineFallbacks.WithLabelValues(pipeline, reason).Inc()
}

// RecordTierServed records which tier produced a snapshot part
func RecordTierServed(asset, tier string) {
	MarketTierServed.WithLabelValues(asset, tier).Inc()
}

// RecordUpstreamCall records a market data provider call
func RecordUpstreamCall(provider string, latency time.Duration, err error) {
	MarketUpstreamCalls.WithLabelValues(provider, status(err)).Inc()
	MarketUpstreamLatency.WithLabelValues(provider).Observe(latency.Seconds())
}

// RecordQuote publishes the last served price and change for a symbol
func RecordQuote(asset, symbol string, price, change float64) {
	QuotePrice.WithLabelValues(asset, symbol).Set(price)
	QuoteChange.WithLabelValues(asset, symbol).Set(change)
}

// RecordNewsItems adds n to the ingestion counter for result
func RecordNewsItems(result string, n int) {
	if n > 0 {
		NewsItems.WithLabelValues(result).Add(float64(n))
	}
}

// RecordNewsletterDispatch records one dispatch attempt
func RecordNewsletterDispatch(err error) {
	NewsletterDispatches.WithLabelValues(status(err)).Inc()
}
