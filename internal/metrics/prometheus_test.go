package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(MarketTierServed.WithLabelValues("equities", "cache"))
	RecordTierServed("equities", "cache")
	assert.Equal(t, before+1, testutil.ToFloat64(MarketTierServed.WithLabelValues("equities", "cache")))

	before = testutil.ToFloat64(ReasonerCalls.WithLabelValues("curate", "m", "error"))
	RecordReasonerCall("curate", "m", time.Millisecond, errors.New("down"))
	assert.Equal(t, before+1, testutil.ToFloat64(ReasonerCalls.WithLabelValues("curate", "m", "error")))

	RecordQuote("crypto", "BTC", 64230.5, 1.25)
	assert.Equal(t, 64230.5, testutil.ToFloat64(QuotePrice.WithLabelValues("crypto", "BTC")))

	before = testutil.ToFloat64(NewsItems.WithLabelValues("saved"))
	RecordNewsItems("saved", 0)
	RecordNewsItems("saved", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(NewsItems.WithLabelValues("saved")))
}

func TestInitIdempotentAndHandler(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})

	RecordFallback("enrichment", "call_failed")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "botbi_pipeline_fallbacks_total")
}
