package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tells the client how fresh the equities data is
type Source string

const (
	SourceLive           Source = "live"
	SourceCache          Source = "cache"
	SourceEmergencyFixed Source = "emergency-fixed"
)

// CryptoSource tells whether crypto quotes came from the provider or the fixed set
type CryptoSource string

const (
	CryptoSourceLive  CryptoSource = "live"
	CryptoSourceFixed CryptoSource = "fixed"
)

// PriceQuote is a single symbol price with its 24h change, both at 2 decimals
type PriceQuote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// NewQuote builds a quote rounding price and change to 2 decimals
func NewQuote(symbol string, price, changePercent float64) PriceQuote {
	return PriceQuote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(price).Round(2),
		ChangePercent: decimal.NewFromFloat(changePercent).Round(2),
	}
}

// Snapshot is what the client renders. Both lists are never empty.
type Snapshot struct {
	Equities     []PriceQuote `json:"equities"`
	Crypto       []PriceQuote `json:"crypto"`
	RetrievedVia Source       `json:"retrieved_via"`
	CryptoVia    CryptoSource `json:"crypto_via"`
}

// CacheEntry is the single equities cache slot
type CacheEntry struct {
	Payload   []PriceQuote `json:"payload"`
	WrittenAt time.Time    `json:"written_at"`
}

// IsFresh reports whether the entry is younger than ttl at now
func (e CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.WrittenAt) < ttl
}

// Age returns how old the entry is at now
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt)
}
