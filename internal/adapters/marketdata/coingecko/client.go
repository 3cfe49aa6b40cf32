package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"botbi/internal/domain/market"
	"botbi/pkg/errors"
)

const providerName = "coingecko"

var _ market.CryptoFetcher = (*Client)(nil)

// Client fetches top coins by market cap from the public CoinGecko API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type coinMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             *float64 `json:"current_price"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

// FetchTopCrypto returns up to limit coins ordered by market cap.
// Coins without a current price or with a negative one are skipped. Missing 24h change counts as 0.
func (c *Client) FetchTopCrypto(ctx context.Context, limit int) ([]market.PriceQuote, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", fmt.Sprint(limit))
	q.Set("page", "1")
	q.Set("sparkline", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/coins/markets?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build coingecko request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(providerName, "coins/markets", classify(ctx, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.NewUpstreamError(providerName, "coins/markets",
			errors.Wrapf(errors.ErrUnavailable, "status %d", resp.StatusCode))
	}

	var coins []coinMarket
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, errors.NewUpstreamError(providerName, "coins/markets",
			errors.Wrap(errors.ErrMalformedResponse, err.Error()))
	}

	quotes := make([]market.PriceQuote, 0, len(coins))
	for _, coin := range coins {
		if coin.CurrentPrice == nil || *coin.CurrentPrice < 0 || coin.Symbol == "" {
			continue
		}
		change := 0.0
		if coin.PriceChangePercentage24h != nil {
			change = *coin.PriceChangePercentage24h
		}
		quotes = append(quotes, market.NewQuote(strings.ToUpper(coin.Symbol), *coin.CurrentPrice, change))
		if len(quotes) == limit {
			break
		}
	}

	if len(quotes) == 0 {
		return nil, errors.NewUpstreamError(providerName, "coins/markets", errors.ErrEmptyResponse)
	}

	return quotes, nil
}

func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || isTimeout(err) {
		return errors.Wrap(errors.ErrTimeout, err.Error())
	}
	return errors.Wrap(errors.ErrUnavailable, err.Error())
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
