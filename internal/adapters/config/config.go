package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"botbi/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	AI            AIConfig
	MarketData    MarketDataConfig
	Feeds         FeedsConfig
	Newsletter    NewsletterConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"botbi"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// HTTPConfig is the ops listener serving health probes and /metrics
type HTTPConfig struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig is optional. Without a host the equities cache uses the file or memory store.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a Redis host was configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type AIConfig struct {
	// Provider selects the reasoning backend: groq, openai or gemini
	Provider      string        `envconfig:"AI_PROVIDER" default:"groq"`
	GroqKey       string        `envconfig:"GROQ_API_KEY"`
	OpenAIKey     string        `envconfig:"OPENAI_API_KEY"`
	GeminiKey     string        `envconfig:"GEMINI_API_KEY"`
	BaseURL       string        `envconfig:"AI_BASE_URL"`
	Model         string        `envconfig:"AI_MODEL"`
	CallTimeout   time.Duration `envconfig:"AI_CALL_TIMEOUT" default:"20s"`
	RatePerMinute int           `envconfig:"AI_RATE_PER_MINUTE" default:"30"`
}

type MarketDataConfig struct {
	FinnhubKey           string        `envconfig:"FINNHUB_API_KEY"`
	FinnhubBaseURL       string        `envconfig:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	FinnhubRatePerMinute int           `envconfig:"FINNHUB_RATE_PER_MINUTE" default:"60"`
	CoinGeckoBaseURL     string        `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com/api/v3"`
	CallTimeout          time.Duration `envconfig:"MARKET_CALL_TIMEOUT" default:"3s"`
	CacheTTL             time.Duration `envconfig:"MARKET_CACHE_TTL" default:"24h"`
	// CacheBackend selects the equities cache store: redis, file or memory
	CacheBackend string   `envconfig:"MARKET_CACHE_BACKEND" default:"file"`
	CacheFile    string   `envconfig:"MARKET_CACHE_FILE" default:"stocks_cache.json"`
	Symbols      []string `envconfig:"MARKET_EQUITY_SYMBOLS" default:"AAPL,MSFT,NVDA,TSLA,AMZN,GOOGL,META,V,NFLX,AMD"`
	CryptoLimit  int      `envconfig:"MARKET_CRYPTO_LIMIT" default:"10"`
}

type FeedsConfig struct {
	URLs         []string      `envconfig:"FEED_URLS" default:"https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=10000664,https://feeds.content.dowjones.io/public/rss/mw_topstories"`
	PerFeedLimit int           `envconfig:"FEED_PER_FEED_LIMIT" default:"5"`
	FetchTimeout time.Duration `envconfig:"FEED_FETCH_TIMEOUT" default:"15s"`
}

type NewsletterConfig struct {
	Recipients []string `envconfig:"NEWSLETTER_RECIPIENTS" default:"newsletter@localhost"`
	PoolSize   int      `envconfig:"NEWSLETTER_POOL_SIZE" default:"30"`
	Limit      int      `envconfig:"NEWSLETTER_LIMIT" default:"10"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for background workers
type WorkerConfig struct {
	IngestionInterval      time.Duration `envconfig:"WORKER_INGESTION_INTERVAL" default:"1h"`
	IngestionEnabled       bool          `envconfig:"WORKER_INGESTION_ENABLED" default:"true"`
	NewsletterInterval     time.Duration `envconfig:"WORKER_NEWSLETTER_INTERVAL" default:"24h"`
	NewsletterEnabled      bool          `envconfig:"WORKER_NEWSLETTER_ENABLED" default:"true"`
	MarketSnapshotInterval time.Duration `envconfig:"WORKER_MARKET_SNAPSHOT_INTERVAL" default:"15m"`
	MarketSnapshotEnabled  bool          `envconfig:"WORKER_MARKET_SNAPSHOT_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AI.Provider {
	case "groq", "openai", "gemini":
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown AI_PROVIDER %q", c.AI.Provider)
	}

	switch c.MarketData.CacheBackend {
	case "file", "memory":
	case "redis":
		if !c.Redis.Enabled() {
			return errors.Wrap(errors.ErrInvalidInput, "MARKET_CACHE_BACKEND=redis requires REDIS_HOST")
		}
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown MARKET_CACHE_BACKEND %q", c.MarketData.CacheBackend)
	}

	if len(c.MarketData.Symbols) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "MARKET_EQUITY_SYMBOLS must not be empty")
	}

	return nil
}
