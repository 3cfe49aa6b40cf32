package curation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botbi/internal/adapters/ai"
	"botbi/internal/domain/news"
	"botbi/internal/metrics"
	"botbi/pkg/logger"
)

const (
	temperature  = 0.0
	systemPrompt = "You are a financial news ranking algorithm. You only return item IDs separated by commas."
)

// Pipeline ranks a candidate pool for the newsletter with a single reasoning call
type Pipeline struct {
	reasoner ai.Reasoner
	timeout  time.Duration
	log      *logger.Logger
}

// NewPipeline creates a curation pipeline. timeout bounds the ranking call.
func NewPipeline(reasoner ai.Reasoner, timeout time.Duration, log *logger.Logger) *Pipeline {
	return &Pipeline{
		reasoner: reasoner,
		timeout:  timeout,
		log:      log.Component("curation"),
	}
}

// Curate returns up to limit items from pool, best first.
// An empty pool yields an empty selection without calling the model. If the call fails or
// the reply names no known id, the first limit items of pool are returned in pool order.
func (p *Pipeline) Curate(ctx context.Context, pool []news.EnrichedItem, limit int) news.RankedSelection {
	if len(pool) == 0 {
		return news.RankedSelection{}
	}
	limit = clampLimit(limit)

	reply, err := p.complete(ctx, buildPrompt(pool, limit))
	if err != nil {
		p.log.Warnw("Ranking call failed, using chronological order",
			"pool", len(pool),
			"error", err,
		)
		metrics.RecordFallback("curation", "call_failed")
		return chronological(pool, limit)
	}

	ranked := Reconcile(reply, pool, limit)
	if len(ranked) == 0 {
		p.log.Warnw("Ranking reply had no known ids, using chronological order",
			"reply", reply,
		)
		metrics.RecordFallback("curation", "no_known_ids")
		return chronological(pool, limit)
	}

	p.log.Debugw("Pool ranked", "pool", len(pool), "selected", len(ranked))
	return news.RankedSelection(ranked)
}

func (p *Pipeline) complete(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := p.reasoner.Complete(ctx, systemPrompt, prompt, temperature)
	metrics.RecordReasonerCall("curate", p.reasoner.Name(), time.Since(start), err)
	return reply, err
}

// chronological is the fallback selection: pool order, truncated
func chronological(pool []news.EnrichedItem, limit int) news.RankedSelection {
	n := min(limit, len(pool))
	out := make(news.RankedSelection, n)
	copy(out, pool[:n])
	return out
}

func buildPrompt(pool []news.EnrichedItem, limit int) string {
	var b strings.Builder
	b.WriteString("Act as a senior editor at a financial newswire.\n")
	b.WriteString("Here is the list of recent news items (ID | Title):\n\n")
	for _, item := range pool {
		fmt.Fprintf(&b, "ID: %s | Title: %s\n", item.ID, item.Title)
	}
	b.WriteString("\nTASK:\n")
	fmt.Fprintf(&b, "Select the %d items with the highest financial impact and global relevance.\n", limit)
	b.WriteString("Order them from most important to least important.\n\n")
	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("Reply ONLY with the IDs separated by commas. No extra text.\n")
	b.WriteString("Example: 14, 2, 55, 8\n")
	return b.String()
}
