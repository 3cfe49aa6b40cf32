package coingecko

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/pkg/errors"
)

func TestFetchTopCrypto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))

		_, _ = io.WriteString(w, `[
			{"id":"bitcoin","symbol":"btc","current_price":64230.499,"price_change_percentage_24h":1.2461},
			{"id":"ethereum","symbol":"eth","current_price":3450.1,"price_change_percentage_24h":null},
			{"id":"ghost","symbol":"gst","current_price":null},
			{"id":"broken","symbol":"brk","current_price":-3.2,"price_change_percentage_24h":0.5}
		]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	quotes, err := c.FetchTopCrypto(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "BTC", quotes[0].Symbol)
	assert.True(t, decimal.RequireFromString("64230.5").Equal(quotes[0].Price))
	assert.True(t, decimal.RequireFromString("1.25").Equal(quotes[0].ChangePercent))
	assert.Equal(t, "ETH", quotes[1].Symbol)
	assert.True(t, quotes[1].ChangePercent.IsZero())
}

func TestFetchTopCrypto_Errors(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, errors.ErrUnavailable},
		{"malformed", http.StatusOK, `{"status":"oops"}`, errors.ErrMalformedResponse},
		{"empty", http.StatusOK, `[]`, errors.ErrEmptyResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).FetchTopCrypto(context.Background(), 10)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel), err.Error())
		})
	}
}

func TestFetchTopCrypto_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 30*time.Millisecond).FetchTopCrypto(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTimeout), err.Error())
}
