// Package knowledge augments agent runs with retrieved context. A Searcher
// is consulted once per run, before the first model call, and its results
// are rendered into a synthetic system message. The hook is advisory: a
// missing searcher, empty results, or a search failure never fail the run.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	ai "github.com/spindleworks/spindle"
)

// Result is one retrieved knowledge item.
type Result struct {
	// Title is a short human-readable label for the item.
	Title string `json:"title,omitempty"`
	// Content is the retrieved text.
	Content string `json:"content"`
	// Score is the relevance score; higher is more relevant.
	Score float64 `json:"score"`
	// SourceRef identifies where the item came from (URL, document id).
	SourceRef string `json:"sourceRef,omitempty"`
}

// SearchOptions control a search.
type SearchOptions struct {
	// Limit caps the number of results. Zero means the searcher's default.
	Limit int
	// MinScore drops results scoring below the threshold.
	MinScore float64
}

// SearchOption is a functional option for Search.
type SearchOption func(*SearchOptions)

// WithLimit caps the number of results returned.
func WithLimit(n int) SearchOption {
	return func(o *SearchOptions) {
		o.Limit = n
	}
}

// WithMinScore drops results scoring below the threshold.
func WithMinScore(s float64) SearchOption {
	return func(o *SearchOptions) {
		o.MinScore = s
	}
}

// ApplySearchOptions folds functional options into a SearchOptions struct.
func ApplySearchOptions(opts ...SearchOption) *SearchOptions {
	o := &SearchOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Searcher retrieves knowledge relevant to a query. Results are expected in
// descending score order.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error)
}

// SearcherFunc adapts a plain function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, opts ...SearchOption) ([]Result, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	return f(ctx, query, opts...)
}

// Augment searches for the query and renders the results into a system
// message to lead the conversation. The second return is false when nothing
// was retrieved: nil searcher, empty query, no results, or a search error
// (logged, never propagated).
func Augment(ctx context.Context, s Searcher, query string, opts ...SearchOption) (ai.Message, bool) {
	if s == nil || strings.TrimSpace(query) == "" {
		return ai.Message{}, false
	}

	results, err := s.Search(ctx, query, opts...)
	if err != nil {
		slog.Warn("knowledge search failed, continuing unaugmented", "error", err)
		return ai.Message{}, false
	}
	if len(results) == 0 {
		return ai.Message{}, false
	}

	return ai.SystemMessage(Render(results)), true
}

// Render formats results as a context block for the model, highest score
// first.
func Render(results []Result) string {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	var b strings.Builder
	b.WriteString("Relevant knowledge retrieved for this conversation:\n")
	for i, r := range sorted {
		b.WriteString(fmt.Sprintf("\n[%d]", i+1))
		if r.Title != "" {
			b.WriteString(" " + r.Title)
		}
		if r.SourceRef != "" {
			b.WriteString(" (" + r.SourceRef + ")")
		}
		b.WriteString("\n")
		b.WriteString(r.Content)
		b.WriteString("\n")
	}
	return b.String()
}
