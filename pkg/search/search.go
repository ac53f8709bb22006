// Package search provides web search backends that return an aggregated,
// free-text view of the top results for a query.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// NoResultsText is returned as the aggregate when a search yields no snippets.
const NoResultsText = "No good DuckDuckGo Search Result was found"

// Provider executes a query and returns the aggregated result text.
type Provider interface {
	Search(ctx context.Context, query string) (string, error)
}

// Result is a single search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// New creates the Provider named by cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case ProviderDuckDuckGo:
		return newDuckDuckGo(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// Aggregate joins result snippets with a single space, skipping blanks.
// An empty aggregate is reported as NoResultsText.
func Aggregate(results []Result) string {
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if s := strings.TrimSpace(r.Snippet); s != "" {
			snippets = append(snippets, s)
		}
	}

	if len(snippets) == 0 {
		return NoResultsText
	}
	return strings.Join(snippets, " ")
}
