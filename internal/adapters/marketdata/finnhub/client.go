package finnhub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"botbi/internal/adapters/ratelimit"
	"botbi/internal/domain/market"
	"botbi/pkg/errors"
)

const providerName = "finnhub"

var _ market.EquityFetcher = (*Client)(nil)

// Client fetches single-symbol quotes from Finnhub
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a Finnhub client. timeout bounds each request.
func NewClient(baseURL, apiKey string, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// quote mirrors the /quote payload. c is current price, dp is percent change.
type quote struct {
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	DP float64 `json:"dp"`
	T  int64   `json:"t"`
}

// FetchQuote returns the current quote for symbol.
// Finnhub answers unknown symbols with an all-zero body, reported as ErrEmptyResponse.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (market.PriceQuote, error) {
	if c.apiKey == "" {
		return market.PriceQuote{}, errors.Wrap(errors.ErrNotConfigured, "finnhub API key is required")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return market.PriceQuote{}, err
		}
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return market.PriceQuote{}, errors.Wrap(err, "build finnhub request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return market.PriceQuote{}, errors.NewUpstreamError(providerName, "quote "+symbol, classify(ctx, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		sentinel := errors.ErrUnavailable
		if resp.StatusCode == http.StatusTooManyRequests {
			sentinel = errors.ErrRateLimitExceeded
		}
		return market.PriceQuote{}, errors.NewUpstreamError(providerName, "quote "+symbol,
			errors.Wrapf(sentinel, "status %d", resp.StatusCode))
	}

	var body quote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return market.PriceQuote{}, errors.NewUpstreamError(providerName, "quote "+symbol,
			errors.Wrap(errors.ErrMalformedResponse, err.Error()))
	}

	if body.C == 0 {
		return market.PriceQuote{}, errors.NewUpstreamError(providerName, "quote "+symbol, errors.ErrEmptyResponse)
	}
	if body.C < 0 {
		return market.PriceQuote{}, errors.NewUpstreamError(providerName, "quote "+symbol,
			errors.Wrapf(errors.ErrMalformedResponse, "negative price %v", body.C))
	}

	return market.NewQuote(symbol, body.C, body.DP), nil
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
