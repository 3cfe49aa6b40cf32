package enrichment

import (
	"strings"
)

// ResponseParser pulls labeled fields out of free-form model output.
//
// Each line is scanned for the configured labels (ASCII case-insensitive, anywhere in
// the line). The text after the label, trimmed and stripped of wrapping quotes and
// markdown emphasis, becomes the field value. Lines without a label are ignored.
// Parse never fails: fields that were not found keep the caller's default.
type ResponseParser struct {
	labels []string
}

// NewResponseParser creates a parser for labels. When a line holds several labels the
// leftmost one wins and the rest of the line is its value.
func NewResponseParser(labels ...string) *ResponseParser {
	return &ResponseParser{labels: labels}
}

// ParseFields is a one-shot helper
func ParseFields(text string, labels []string, defaults map[string]string) map[string]string {
	return NewResponseParser(labels...).Parse(text, defaults)
}

// Parse returns a map keyed by label. Every configured label is present in the result.
// A later line with the same label overwrites an earlier one.
func (p *ResponseParser) Parse(text string, defaults map[string]string) map[string]string {
	out := make(map[string]string, len(p.labels))
	for _, label := range p.labels {
		out[label] = defaults[label]
	}

	for _, line := range strings.Split(text, "\n") {
		label, rest, ok := p.match(line)
		if !ok {
			continue
		}
		if value := clean(rest); value != "" {
			out[label] = value
		}
	}

	return out
}

// match finds the label occurring earliest in line and returns the text after it.
// Ties go to the label configured first.
func (p *ResponseParser) match(line string) (label, rest string, ok bool) {
	best := -1
	for _, l := range p.labels {
		if i := indexFold(line, l); i >= 0 && (best < 0 || i < best) {
			best, label = i, l
		}
	}
	if best < 0 {
		return "", "", false
	}
	return label, line[best+len(label):], true
}

// indexFold is strings.Index with ASCII case folding, safe for non-ASCII lines
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

const wrapChars = "\"'`*_“”‘’ \t\r"

// clean trims whitespace, quotes, markdown emphasis and one pair of wrapping brackets
func clean(s string) string {
	s = strings.Trim(s, wrapChars)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = strings.Trim(s[1:len(s)-1], wrapChars)
	}
	return s
}
