// Package extract pulls plain text out of PDF documents.
//
// Text is extracted page by page with github.com/ledongthuc/pdf. No layout,
// table, or structure information is preserved. Pages are processed on a
// bounded worker group and returned in page order.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Extractor returns the text of every page of a PDF in page order.
type Extractor interface {
	Pages(ctx context.Context, data []byte) ([]string, error)
}

type pdfExtractor struct {
	workers int
	logger  *slog.Logger
}

// New creates a PDF Extractor that uses up to workers goroutines per document.
// A non-positive workers value uses runtime.NumCPU.
func New(workers int, logger *slog.Logger) Extractor {
	api.DisableConfigDir()

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &pdfExtractor{
		workers: workers,
		logger:  logger.With("system", "extract"),
	}
}

func (e *pdfExtractor) Pages(ctx context.Context, data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	count, err := pageCount(data)
	if err != nil {
		return nil, err
	}

	e.crossCheck(data, count)

	pages := make([]string, count)
	if count == 0 {
		return pages, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range partition(count, min(e.workers, count)) {
		g.Go(func() error {
			return extractSpan(ctx, data, s, pages)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

// crossCheck compares the page count against pdfcpu's reading of the file.
// Disagreement or a pdfcpu failure is logged but never fails extraction.
func (e *pdfExtractor) crossCheck(data []byte, count int) {
	pdfcpuCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		e.logger.Warn("pdfcpu page count failed", "error", err)
		return
	}
	if pdfcpuCount != count {
		e.logger.Warn(
			"page count mismatch",
			"reader_pages", count,
			"pdfcpu_pages", pdfcpuCount,
		)
	}
}

type span struct {
	start int
	end   int
}

// partition splits n pages into at most parts contiguous spans.
func partition(n, parts int) []span {
	parts = max(parts, 1)
	size := (n + parts - 1) / parts

	spans := make([]span, 0, parts)
	for start := 0; start < n; start += size {
		spans = append(spans, span{start: start, end: min(start+size, n)})
	}
	return spans
}

// extractSpan opens its own reader so spans never share parser state.
func extractSpan(ctx context.Context, data []byte, s span, pages []string) error {
	r, err := openReader(data)
	if err != nil {
		return err
	}

	for i := s.start; i < s.end; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := pageText(r, i+1)
		if err != nil {
			return fmt.Errorf("%w: page %d: %w", ErrPageFailed, i+1, err)
		}
		pages[i] = text
	}

	return nil
}

func pageText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func pageCount(data []byte) (count int, err error) {
	r, err := openReader(data)
	if err != nil {
		return 0, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, rec)
		}
	}()

	return r.NumPage(), nil
}

// openReader guards against panics raised by the parser on corrupt input.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, rec)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return r, nil
}
