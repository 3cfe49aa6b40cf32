package newsletter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"botbi/internal/domain/news"
	"botbi/pkg/logger"
)

// Digest is one newsletter issue
type Digest struct {
	Subject     string
	Items       news.RankedSelection
	GeneratedAt time.Time
}

// Sender delivers a digest to one recipient
type Sender interface {
	Send(ctx context.Context, recipient string, digest Digest) error
}

// LogSender writes the rendered digest to the log instead of mailing it
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a sender that logs digests
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.Component("newsletter_sender")}
}

// Send logs the rendered digest
func (s *LogSender) Send(ctx context.Context, recipient string, digest Digest) error {
	s.log.Infow("Newsletter digest",
		"recipient", recipient,
		"subject", digest.Subject,
		"items", len(digest.Items),
		"body", Render(digest),
	)
	return nil
}

// Render formats the digest as plain text, one block per item in rank order
func Render(d Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", d.Subject)
	for i, item := range d.Items {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, item.Category, item.Title)
		if !item.PublishedAt.IsZero() {
			fmt.Fprintf(&b, "   %s\n", humanize.RelTime(item.PublishedAt, d.GeneratedAt, "ago", "from now"))
		}
		fmt.Fprintf(&b, "   %s\n", item.Summary)
		if item.SourceURL != "" {
			fmt.Fprintf(&b, "   %s\n", item.SourceURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
