package bootstrap

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"botbi/internal/adapters/ai"
	"botbi/internal/adapters/config"
	errnoop "botbi/internal/adapters/errors/noop"
	"botbi/internal/adapters/errors/sentry"
	"botbi/internal/adapters/feeds"
	"botbi/internal/adapters/marketdata/coingecko"
	"botbi/internal/adapters/marketdata/finnhub"
	pgclient "botbi/internal/adapters/postgres"
	"botbi/internal/adapters/ratelimit"
	redisclient "botbi/internal/adapters/redis"
	"botbi/internal/api"
	"botbi/internal/api/health"
	"botbi/internal/domain/market"
	"botbi/internal/metrics"
	filerepo "botbi/internal/repository/file"
	memrepo "botbi/internal/repository/memory"
	pgrepo "botbi/internal/repository/postgres"
	redisrepo "botbi/internal/repository/redis"
	"botbi/internal/services/curation"
	"botbi/internal/services/enrichment"
	marketdatasvc "botbi/internal/services/market_data"
	"botbi/internal/workers/newsletter"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger and error tracking
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)

	metrics.Init()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects PostgreSQL and, when configured, Redis
func (c *Container) MustInitInfrastructure() {
	var err error

	c.Log.Info("Connecting to PostgreSQL...")
	c.PG, err = pgclient.NewClient(c.Config.Postgres)
	if err != nil {
		c.Log.Fatalf("failed to connect postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()
	if err := pgrepo.EnsureSchema(ctx, c.PG.DB()); err != nil {
		c.Log.Fatalf("failed to prepare schema: %v", err)
	}
	c.Log.Info("PostgreSQL connected")

	if !c.Config.Redis.Enabled() {
		c.Log.Info("Redis not configured, skipping")
		return
	}

	c.Log.Info("Connecting to Redis...")
	c.Redis, err = redisclient.NewClient(c.Config.Redis)
	if err != nil {
		if c.Config.MarketData.CacheBackend == "redis" {
			c.Log.Fatalf("failed to connect redis: %v", err)
		}
		c.Log.Warnf("Redis unavailable, continuing without it: %v", err)
		c.Redis = nil
		return
	}
	c.Log.Info("Redis connected")
}

// ========================================
// Phase 3: Repositories
// ========================================

// MustInitRepositories builds the news repository and the equities cache store
func (c *Container) MustInitRepositories() {
	c.Repos.News = pgrepo.NewNewsRepository(c.PG.DB())
	c.Repos.EquitiesCache = provideEquitiesCache(c.Config.MarketData, c.Redis, c.Log)
}

// ========================================
// Phase 4: External Adapters
// ========================================

// MustInitAdapters builds the reasoning, feed and market data clients
func (c *Container) MustInitAdapters() {
	cfg := c.Config

	reasoner, err := ai.NewReasoner(c.Context, cfg.AI)
	if err != nil {
		c.Log.Fatalf("failed to init reasoner: %v", err)
	}
	c.Adapters.Reasoner = reasoner
	c.Log.Infow("Reasoner ready", "reasoner", reasoner.Name())

	c.Adapters.Feeds = feeds.NewRSSSource(cfg.Feeds.URLs, cfg.Feeds.PerFeedLimit, cfg.Feeds.FetchTimeout, c.Log)

	c.Adapters.Crypto = coingecko.NewClient(cfg.MarketData.CoinGeckoBaseURL, cfg.MarketData.CallTimeout)
	c.Adapters.Equities = finnhub.NewClient(
		cfg.MarketData.FinnhubBaseURL,
		cfg.MarketData.FinnhubKey,
		cfg.MarketData.CallTimeout,
		ratelimit.NewLimiter("finnhub", cfg.MarketData.FinnhubRatePerMinute),
	)
	if cfg.MarketData.FinnhubKey == "" {
		c.Log.Warn("FINNHUB_API_KEY not set, equities will come from cache or the emergency set")
	}

	c.Adapters.Sender = newsletter.NewLogSender(c.Log)
}

// ========================================
// Phase 5: Services
// ========================================

// MustInitServices builds the enrichment, curation and market data pipelines
func (c *Container) MustInitServices() {
	cfg := c.Config

	c.Services.Enrichment = enrichment.NewPipeline(c.Adapters.Reasoner, cfg.AI.CallTimeout, c.Log)
	c.Services.Curation = curation.NewPipeline(c.Adapters.Reasoner, cfg.AI.CallTimeout, c.Log)
	c.Services.MarketData = marketdatasvc.NewService(
		c.Adapters.Crypto,
		c.Adapters.Equities,
		c.Repos.EquitiesCache,
		marketdatasvc.Config{
			Symbols:     cfg.MarketData.Symbols,
			CryptoLimit: cfg.MarketData.CryptoLimit,
			CallTimeout: cfg.MarketData.CallTimeout,
			CacheTTL:    cfg.MarketData.CacheTTL,
		},
		c.Log,
	)
}

// ========================================
// Phase 6: Application (HTTP)
// ========================================

// MustInitApplication builds health checks, the store collector and the HTTP server
func (c *Container) MustInitApplication() {
	h := health.New(c.Log, c.Config.App.Name, c.Config.App.Version).
		AddCheck("postgres", true, c.PG.Health)
	if c.Redis != nil {
		h.AddCheck("redis", c.Config.MarketData.CacheBackend == "redis", c.Redis.Health)
	}
	c.Application.HealthHandler = h

	if err := prometheus.Register(metrics.NewStoreCollector(c.Log, c.PG.DB(), c.Repos.EquitiesCache)); err != nil {
		c.Log.Warnf("Store collector not registered: %v", err)
	}

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Addr:        c.Config.HTTP.Addr,
		ServiceName: c.Config.App.Name,
		Version:     c.Config.App.Version,
	}, h, metrics.Handler(), c.Services.MarketData, c.Log)
}

// ========================================
// Phase 7: Background
// ========================================

// MustInitBackground registers the workers with the scheduler
func (c *Container) MustInitBackground() {
	c.Background.WorkerScheduler = provideWorkers(c)
	c.Application.HealthHandler.WithWorkers(c.Background.WorkerScheduler)
}

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func provideEquitiesCache(cfg config.MarketDataConfig, rdb *redisclient.Client, log *logger.Logger) market.CacheStore {
	switch cfg.CacheBackend {
	case "redis":
		log.Info("Equities cache: redis")
		return redisrepo.NewEquitiesCache(rdb.Client(), "")
	case "memory":
		log.Info("Equities cache: memory")
		return memrepo.NewEquitiesCache()
	default:
		log.Infow("Equities cache: file", "path", cfg.CacheFile)
		return filerepo.NewEquitiesCache(cfg.CacheFile)
	}
}
