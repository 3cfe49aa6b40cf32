package market_data

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"botbi/internal/domain/market"
	"botbi/internal/metrics"
	"botbi/pkg/errors"
	"botbi/pkg/fallback"
	"botbi/pkg/logger"
)

// Equities tiers in evaluation order
const (
	TierFreshCache = "fresh_cache"
	TierLive       = "live"
	TierStaleCache = "stale_cache"
	TierEmergency  = "emergency_fixed"
)

// Crypto tiers
const (
	TierCryptoLive  = "live"
	TierCryptoFixed = "fixed"
)

var equitySources = map[string]market.Source{
	TierFreshCache: market.SourceCache,
	TierLive:       market.SourceLive,
	TierStaleCache: market.SourceCache,
	TierEmergency:  market.SourceEmergencyFixed,
}

// DefaultSymbols is the equities watch list
var DefaultSymbols = []string{"AAPL", "MSFT", "NVDA", "TSLA", "AMZN", "GOOGL", "META", "V", "NFLX", "AMD"}

// Config tunes the aggregator
type Config struct {
	Symbols     []string
	CryptoLimit int
	CallTimeout time.Duration
	CacheTTL    time.Duration
}

func (c Config) withDefaults() Config {
	if len(c.Symbols) == 0 {
		c.Symbols = DefaultSymbols
	}
	if c.CryptoLimit <= 0 {
		c.CryptoLimit = 10
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 3 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 24 * time.Hour
	}
	return c
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service aggregates crypto and equities quotes into a snapshot that is never empty.
//
// Crypto is fetched live on every call and falls back to a fixed set. Equities go through
// fresh cache, live fetch, stale cache and an emergency fixed set, in that order.
type Service struct {
	crypto   market.CryptoFetcher
	equities market.EquityFetcher
	cache    market.CacheStore
	cfg      Config
	now      func() time.Time
	log      *logger.Logger

	// mu serializes the equities path so the cache read, live fetch and write are one step
	mu sync.Mutex
}

// NewService creates the market data aggregator
func NewService(
	crypto market.CryptoFetcher,
	equities market.EquityFetcher,
	cache market.CacheStore,
	cfg Config,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		crypto:   crypto,
		equities: equities,
		cache:    cache,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		log:      log.Component("market_data"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSnapshot returns crypto and equities quotes. It never fails and never returns empty lists.
func (s *Service) GetSnapshot(ctx context.Context) market.Snapshot {
	var (
		wg        sync.WaitGroup
		crypto    []market.PriceQuote
		cryptoVia market.CryptoSource
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		crypto, cryptoVia = s.Crypto(ctx)
	}()

	equities, via := s.Equities(ctx)
	wg.Wait()

	return market.Snapshot{
		Equities:     equities,
		Crypto:       crypto,
		RetrievedVia: via,
		CryptoVia:    cryptoVia,
	}
}

// Crypto returns the top coins from the provider, or the fixed set
func (s *Service) Crypto(ctx context.Context) ([]market.PriceQuote, market.CryptoSource) {
	res := fallback.New(TierCryptoFixed, func(ctx context.Context) []market.PriceQuote {
		return FixedCrypto()
	}).
		Then(TierCryptoLive, s.liveCrypto).
		Observe(s.observe("crypto")).
		OnPanic(s.tierPanicked("crypto")).
		Resolve(ctx)

	via := market.CryptoSourceLive
	if res.Tier == TierCryptoFixed {
		via = market.CryptoSourceFixed
		s.log.Warnw("Crypto provider unavailable, serving fixed quotes")
	}
	s.recordQuotes("crypto", res.Value)
	return res.Value, via
}

// Equities walks the equities tiers and reports which kind of source served the quotes
func (s *Service) Equities(ctx context.Context) ([]market.PriceQuote, market.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.readCache(ctx)

	res := fallback.New(TierEmergency, func(ctx context.Context) []market.PriceQuote {
		s.log.Warnw("No live equities and no cache, serving emergency quotes")
		return EmergencyEquities()
	}).
		Then(TierFreshCache, func(ctx context.Context) ([]market.PriceQuote, bool) {
			if entry == nil || !entry.IsFresh(s.now(), s.cfg.CacheTTL) {
				return nil, false
			}
			return entry.Payload, true
		}).
		Then(TierLive, func(ctx context.Context) ([]market.PriceQuote, bool) {
			quotes := s.liveEquities(ctx)
			if len(quotes) == 0 {
				return nil, false
			}
			s.writeCache(ctx, quotes)
			return quotes, true
		}).
		Then(TierStaleCache, func(ctx context.Context) ([]market.PriceQuote, bool) {
			if entry == nil {
				return nil, false
			}
			s.log.Warnw("Live equities failed, serving stale cache",
				"age", humanize.RelTime(entry.WrittenAt, s.now(), "ago", "from now"),
			)
			return entry.Payload, true
		}).
		Observe(s.observe("equities")).
		OnPanic(s.tierPanicked("equities")).
		Resolve(ctx)

	s.recordQuotes("equities", res.Value)
	return res.Value, equitySources[res.Tier]
}

func (s *Service) liveCrypto(ctx context.Context) ([]market.PriceQuote, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	quotes, err := s.crypto.FetchTopCrypto(ctx, s.cfg.CryptoLimit)
	metrics.RecordUpstreamCall("crypto", time.Since(start), err)
	if err != nil {
		s.log.Warnw("Crypto fetch failed", "error", err)
		return nil, false
	}
	if len(quotes) == 0 {
		return nil, false
	}
	return quotes, true
}

// liveEquities quotes every symbol concurrently and returns the successes in symbol order
func (s *Service) liveEquities(ctx context.Context) []market.PriceQuote {
	results := make([]*market.PriceQuote, len(s.cfg.Symbols))

	var wg sync.WaitGroup
	for i, symbol := range s.cfg.Symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Warnw("Equity quote panicked", "symbol", symbol, "panic", r)
				}
			}()

			callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
			defer cancel()

			start := time.Now()
			q, err := s.equities.FetchQuote(callCtx, symbol)
			metrics.RecordUpstreamCall("equities", time.Since(start), err)
			if err != nil {
				s.log.Debugw("Equity quote failed", "symbol", symbol, "error", err)
				return
			}
			results[i] = &q
		}(i, symbol)
	}
	wg.Wait()

	quotes := make([]market.PriceQuote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}

	if missing := len(s.cfg.Symbols) - len(quotes); missing > 0 {
		s.log.Infow("Some equity quotes missing", "fetched", len(quotes), "missing", missing)
	}
	return quotes
}

// readCache returns the current entry, or nil on a miss, a corrupt or an empty entry
func (s *Service) readCache(ctx context.Context) *market.CacheEntry {
	entry, err := s.cache.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrNotFound):
		return nil
	case errors.Is(err, errors.ErrCacheCorrupt):
		s.log.Warnw("Equities cache is corrupt, ignoring it", "error", err)
		return nil
	default:
		s.log.Warnw("Equities cache read failed", "error", err)
		return nil
	}

	if entry == nil || len(entry.Payload) == 0 {
		return nil
	}
	return entry
}

func (s *Service) writeCache(ctx context.Context, quotes []market.PriceQuote) {
	entry := market.CacheEntry{Payload: quotes, WrittenAt: s.now()}
	if err := s.cache.Set(ctx, entry); err != nil {
		s.log.Errorw("Failed to write equities cache", "error", err, "quotes", len(quotes))
	}
}

func (s *Service) observe(asset string) func(tier string, produced bool) {
	return func(tier string, produced bool) {
		if produced {
			metrics.RecordTierServed(asset, tier)
		}
	}
}

func (s *Service) tierPanicked(asset string) func(tier string, recovered any) {
	return func(tier string, recovered any) {
		s.log.Warnw("Market data tier panicked, falling back", "asset", asset, "tier", tier, "panic", recovered)
	}
}

func (s *Service) recordQuotes(asset string, quotes []market.PriceQuote) {
	for _, q := range quotes {
		metrics.RecordQuote(asset, q.Symbol, q.Price.InexactFloat64(), q.ChangePercent.InexactFloat64())
	}
}
