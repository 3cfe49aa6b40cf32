package enrichment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"botbi/internal/adapters/ai"
	"botbi/internal/domain/news"
	"botbi/internal/metrics"
	"botbi/pkg/logger"
)

const (
	labelTitle    = "Title:"
	labelCategory = "Category:"
	labelSummary  = "Summary:"

	// MaxBodyRunes bounds the article body sent to the model
	MaxBodyRunes = 1000

	temperature = 0.3

	systemPrompt = "You are an expert financial analyst. You answer briefly and directly."
)

// Pipeline enriches raw feed items with one reasoning call each
type Pipeline struct {
	reasoner ai.Reasoner
	parser   *ResponseParser
	timeout  time.Duration
	newID    func() string
	log      *logger.Logger
}

// NewPipeline creates an enrichment pipeline. timeout bounds each reasoning call.
func NewPipeline(reasoner ai.Reasoner, timeout time.Duration, log *logger.Logger) *Pipeline {
	return &Pipeline{
		reasoner: reasoner,
		parser:   NewResponseParser(labelTitle, labelCategory, labelSummary),
		timeout:  timeout,
		newID:    uuid.NewString,
		log:      log.Component("enrichment"),
	}
}

// Enrich returns an enriched item for raw. It never fails: if the call fails the item keeps
// its feed title, category General and the unavailable summary. Categories outside the
// known set are kept as returned.
func (p *Pipeline) Enrich(ctx context.Context, raw news.RawItem) news.EnrichedItem {
	item := news.EnrichedItem{
		ID:              p.newID(),
		Title:           raw.Title,
		OriginalTitle:   raw.Title,
		Category:        news.CategoryGeneral,
		Summary:         news.SummaryUnavailable,
		OriginalContent: raw.Body,
		SourceURL:       raw.Link,
		PublishedAt:     raw.PublishedAt,
	}

	reply, err := p.complete(ctx, buildPrompt(raw))
	if err != nil {
		p.log.Warnw("Enrichment call failed, using defaults",
			"title", raw.Title,
			"error", err,
		)
		metrics.RecordFallback("enrichment", "call_failed")
		return item
	}

	fields := p.parser.Parse(reply, map[string]string{
		labelTitle:    raw.Title,
		labelCategory: string(news.CategoryGeneral),
		labelSummary:  news.SummaryUnavailable,
	})

	item.Title = fields[labelTitle]
	item.Category = news.Category(fields[labelCategory])
	item.Summary = fields[labelSummary]

	if item.Summary == news.SummaryUnavailable {
		p.log.Warnw("Enrichment reply had no summary", "title", raw.Title, "reply", truncateRunes(reply, 200))
		metrics.RecordFallback("enrichment", "unparsed")
	}
	if !item.Category.IsKnown() {
		p.log.Debugw("Model returned category outside known set", "category", item.Category)
	}

	return item
}

// EnrichAll enriches items sequentially, preserving order.
// Once ctx is done the remaining calls fail fast and those items get defaults.
func (p *Pipeline) EnrichAll(ctx context.Context, raws []news.RawItem) []news.EnrichedItem {
	out := make([]news.EnrichedItem, 0, len(raws))
	for _, raw := range raws {
		out = append(out, p.Enrich(ctx, raw))
	}
	return out
}

func (p *Pipeline) complete(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := p.reasoner.Complete(ctx, systemPrompt, prompt, temperature)
	metrics.RecordReasonerCall("enrich", p.reasoner.Name(), time.Since(start), err)
	return reply, err
}

func buildPrompt(raw news.RawItem) string {
	categories := make([]string, 0, len(news.Categories))
	for _, c := range news.Categories {
		if c != news.CategoryGeneral {
			categories = append(categories, string(c))
		}
	}

	var b strings.Builder
	b.WriteString("Analyze the following financial news item:\n")
	fmt.Fprintf(&b, "Title: %s\n", raw.Title)
	fmt.Fprintf(&b, "Content: %s\n\n", truncateRunes(raw.Body, MaxBodyRunes))
	b.WriteString("TASK:\n")
	b.WriteString("1. Write a clear, neutral headline.\n")
	fmt.Fprintf(&b, "2. Classify it into ONE of these categories: %s.\n", strings.Join(categories, ", "))
	b.WriteString("3. Write a short summary focused on the financial impact, on the same line as its label.\n\n")
	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("Title: [headline]\n")
	b.WriteString("Category: [category]\n")
	b.WriteString("Summary: [summary]\n")
	return b.String()
}

// truncateRunes cuts s to at most n runes
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
