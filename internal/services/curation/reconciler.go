package curation

import (
	"strings"

	"botbi/internal/domain/news"
)

// MaxSelection caps every ranked selection
const MaxSelection = 10

// Reconcile maps a comma-separated id reply onto pool.
//
// Periods are stripped, the reply is split on commas (and newlines), and each token is
// trimmed. Tokens that match a pool id exactly are kept in reply order; unknown and repeated
// ids are dropped. The result holds at most limit items and may be empty, in which case the
// caller picks the fallback.
func Reconcile(reply string, pool []news.EnrichedItem, limit int) []news.EnrichedItem {
	limit = clampLimit(limit)

	byID := make(map[string]news.EnrichedItem, len(pool))
	for _, item := range pool {
		byID[item.ID] = item
	}

	reply = strings.ReplaceAll(reply, ".", "")
	tokens := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]bool, len(tokens))
	out := make([]news.EnrichedItem, 0, limit)
	for _, tok := range tokens {
		if len(out) == limit {
			break
		}
		id := cleanToken(tok)
		if id == "" || seen[id] {
			continue
		}
		item, ok := byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}

	return out
}

// cleanToken trims a token and drops decorations models add around ids, like "ID: 4" or "[4]"
func cleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 3 && strings.EqualFold(tok[:3], "id:") {
		tok = strings.TrimSpace(tok[3:])
	}
	tok = strings.TrimPrefix(tok, "#")
	return strings.Trim(tok, "[]()\"'` \t\r")
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxSelection {
		return MaxSelection
	}
	return limit
}
