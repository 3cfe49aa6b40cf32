package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/internal/api/health"
	"botbi/internal/domain/market"
	"botbi/pkg/logger"
)

type fixedSnapshots struct{}

func (fixedSnapshots) GetSnapshot(ctx context.Context) market.Snapshot {
	return market.Snapshot{
		Equities:     []market.PriceQuote{market.NewQuote("AAPL", 224.5, 1.45)},
		Crypto:       []market.PriceQuote{market.NewQuote("BTC", 64230.5, 1.25)},
		RetrievedVia: market.SourceCache,
		CryptoVia:    market.CryptoSourceLive,
	}
}

func newTestServer() *httptest.Server {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	h := health.New(logger.NewNop(), "botbi", "test")
	mux := newMux(ServerConfig{ServiceName: "botbi", Version: "test"}, h, metrics, fixedSnapshots{}, logger.NewNop())
	return httptest.NewServer(mux)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	for _, path := range []string{"/", "/health", "/health/ready", "/health/live", "/metrics", "/api/market"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarketSnapshotJSON(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/market")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "cache", body["retrieved_via"])
	assert.Equal(t, "live", body["crypto_via"])
	equities := body["equities"].([]interface{})
	require.Len(t, equities, 1)
	assert.Equal(t, "224.5", equities[0].(map[string]interface{})["price"])
}
