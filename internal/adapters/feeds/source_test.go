package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/pkg/logger"
)

func rss(titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Markets</title>`)
	for i, title := range titles {
		fmt.Fprintf(&b, `<item><title>%s</title><link>https://example.com/%d</link>`+
			`<description>&lt;p&gt;Body of   %s&lt;/p&gt;</description>`+
			`<pubDate>Mon, 02 Mar 2026 10:0%d:00 GMT</pubDate></item>`, title, i, title, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func serve(body string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

func TestFetchRawItems_LimitAndOrder(t *testing.T) {
	first := serve(rss("a1", "a2", "a3", "a4", "a5", "a6", "a7"), http.StatusOK)
	defer first.Close()
	second := serve(rss("b1", "b2"), http.StatusOK)
	defer second.Close()

	src := NewRSSSource([]string{first.URL, second.URL}, 5, time.Second, logger.NewNop())
	items, err := src.FetchRawItems(context.Background())
	require.NoError(t, err)

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5", "b1", "b2"}, titles)

	assert.Equal(t, "Body of a1", items[0].Body)
	assert.Equal(t, "https://example.com/0", items[0].Link)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), items[0].PublishedAt)
}

func TestFetchRawItems_PartialFailure(t *testing.T) {
	ok := serve(rss("only"), http.StatusOK)
	defer ok.Close()
	broken := serve("nope", http.StatusInternalServerError)
	defer broken.Close()

	items, err := NewRSSSource([]string{broken.URL, ok.URL}, 5, time.Second, logger.NewNop()).
		FetchRawItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "only", items[0].Title)
}

func TestFetchRawItems_AllFail(t *testing.T) {
	broken := serve("<not-rss", http.StatusOK)
	defer broken.Close()

	_, err := NewRSSSource([]string{broken.URL}, 5, time.Second, logger.NewNop()).
		FetchRawItems(context.Background())
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Fed holds rates steady", StripHTML("<p>Fed <b>holds</b>\n rates   steady</p>"))
	assert.Equal(t, "", StripHTML("<img src='x'/>"))
}
