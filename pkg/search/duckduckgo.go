package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const litePath = "/lite/"

// duckDuckGo queries the DuckDuckGo lite HTML interface. No API key is needed.
type duckDuckGo struct {
	client     *resty.Client
	maxResults int
	logger     *slog.Logger
}

func newDuckDuckGo(cfg *Config, logger *slog.Logger) *duckDuckGo {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.TimeoutDuration()).
		SetHeader("User-Agent", cfg.UserAgent)

	return &duckDuckGo{
		client:     client,
		maxResults: cfg.MaxResults,
		logger:     logger.With("system", "search", "provider", ProviderDuckDuckGo),
	}
}

func (d *duckDuckGo) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"q": query}).
		Post(litePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: duckduckgo http %d", ErrRequestFailed, resp.StatusCode())
	}

	results, err := parseLite(bytes.NewReader(resp.Body()), d.maxResults)
	if err != nil {
		return "", fmt.Errorf("%w: parse results: %w", ErrRequestFailed, err)
	}

	d.logger.InfoContext(
		ctx, "search complete",
		"results", len(results),
		"elapsed", resp.Time(),
	)

	return Aggregate(results), nil
}

// parseLite reads result links and snippets from the lite results table.
// Links and snippets appear in matching order, one snippet row per link.
func parseLite(r io.Reader, limit int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	snippets := doc.Find("td.result-snippet")
	var results []Result

	doc.Find("a.result-link").EachWithBreak(func(i int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		result := Result{
			Title: strings.TrimSpace(link.Text()),
			URL:   strings.TrimSpace(href),
		}

		if i < snippets.Length() {
			result.Snippet = strings.Join(strings.Fields(snippets.Eq(i).Text()), " ")
		}

		if result.URL == "" || result.Title == "" {
			return true
		}

		results = append(results, result)
		return len(results) < limit
	})

	return results, nil
}
