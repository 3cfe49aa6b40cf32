package feeds

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"botbi/internal/domain/news"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// Source yields raw items from the configured feeds
type Source interface {
	FetchRawItems(ctx context.Context) ([]news.RawItem, error)
}

var _ Source = (*RSSSource)(nil)

// RSSSource reads RSS/Atom feeds with gofeed
type RSSSource struct {
	urls         []string
	perFeedLimit int
	timeout      time.Duration
	parser       *gofeed.Parser
	log          *logger.Logger
}

// NewRSSSource creates a source over urls taking at most perFeedLimit entries from each
func NewRSSSource(urls []string, perFeedLimit int, timeout time.Duration, log *logger.Logger) *RSSSource {
	return &RSSSource{
		urls:         urls,
		perFeedLimit: perFeedLimit,
		timeout:      timeout,
		parser:       gofeed.NewParser(),
		log:          log.Component("feeds"),
	}
}

// FetchRawItems fetches all feeds concurrently. Items keep feed order, then entry order.
// A failing feed is logged and skipped; an error is returned only when every feed failed.
func (s *RSSSource) FetchRawItems(ctx context.Context) ([]news.RawItem, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		perFeed = make([][]news.RawItem, len(s.urls))
		failed  errors.MultiError
	)

	for i, url := range s.urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()

			items, err := s.fetchOne(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warnw("Feed fetch failed", "url", url, "error", err)
				failed.Add(err)
				return
			}
			perFeed[i] = items
		}(i, url)
	}
	wg.Wait()

	var all []news.RawItem
	for _, items := range perFeed {
		all = append(all, items...)
	}

	if len(s.urls) > 0 && len(failed.Errors) == len(s.urls) {
		return nil, errors.Wrap(failed.ToError(), "all feeds failed")
	}

	return all, nil
}

func (s *RSSSource) fetchOne(ctx context.Context, url string) ([]news.RawItem, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	feed, err := s.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch feed %s", url)
	}

	count := len(feed.Items)
	if s.perFeedLimit > 0 && count > s.perFeedLimit {
		count = s.perFeedLimit
	}

	items := make([]news.RawItem, 0, count)
	for _, entry := range feed.Items[:count] {
		items = append(items, toRawItem(entry))
	}
	return items, nil
}

func toRawItem(entry *gofeed.Item) news.RawItem {
	published := time.Now().UTC()
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		published = entry.UpdatedParsed.UTC()
	}

	body := entry.Description
	if body == "" {
		body = entry.Content
	}

	return news.RawItem{
		Title:       strings.TrimSpace(entry.Title),
		Link:        entry.Link,
		Body:        StripHTML(body),
		PublishedAt: published,
	}
}

// StripHTML drops tags and collapses whitespace
func StripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
