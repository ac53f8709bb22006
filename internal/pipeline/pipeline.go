// Package pipeline runs the four user-triggered actions against a session:
// extract the report text, search for industry benchmarks, generate an
// audit, and answer questions about the report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/auditor/internal/sessions"
	"github.com/JaimeStill/auditor/pkg/extract"
	"github.com/JaimeStill/auditor/pkg/formatting"
	"github.com/JaimeStill/auditor/pkg/inference"
	"github.com/JaimeStill/auditor/pkg/search"
)

// System defines the public contract for pipeline actions. Every action
// runs under the session's action lock and writes at most one slot, only
// on success.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Extract(ctx context.Context, sess *sessions.Session, cmd ExtractCommand) (*ExtractResult, error)
	Search(ctx context.Context, sess *sessions.Session, industry string) (*SearchResult, error)
	Audit(ctx context.Context, sess *sessions.Session) (*AuditResult, error)
	Chat(ctx context.Context, sess *sessions.Session, question string) (*ChatResult, error)

	// Report returns the stored audit text for download.
	Report(sess *sessions.Session) (string, error)
}

// Providers bundles the external collaborators used by the actions.
type Providers struct {
	Extractor extract.Extractor
	Search    search.Provider
	Inference inference.Provider
}

type pipeline struct {
	cfg       Config
	store     *sessions.Store
	providers Providers
	logger    *slog.Logger
}

// New creates a pipeline implementing the System interface.
func New(cfg *Config, store *sessions.Store, providers Providers, logger *slog.Logger) System {
	return &pipeline{
		cfg:       *cfg,
		store:     store,
		providers: providers,
		logger:    logger.With("system", "pipeline"),
	}
}

func (p *pipeline) Handler(maxUploadSize int64) *Handler {
	return NewHandler(p, p.store, p.logger, maxUploadSize)
}

func (p *pipeline) Extract(ctx context.Context, sess *sessions.Session, cmd ExtractCommand) (*ExtractResult, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}

	var result *ExtractResult

	err := sess.Run(ctx, func() error {
		start := time.Now()

		pages, err := p.providers.Extractor.Pages(ctx, cmd.Data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}

		text := strings.Join(pages, "")
		sess.SetReport(sessions.Report{
			Text:        text,
			Filename:    cmd.Filename,
			PageCount:   len(pages),
			ExtractedAt: time.Now().UTC(),
		})

		preview, omitted := formatting.Truncate(text, p.cfg.PreviewChars)
		result = &ExtractResult{
			Filename:         cmd.Filename,
			PageCount:        len(pages),
			Characters:       formatting.CharCount(text),
			Preview:          preview,
			PreviewTruncated: omitted > 0,
		}

		p.logger.Info(
			"report extracted",
			"session_id", sess.ID,
			"filename", cmd.Filename,
			"pages", len(pages),
			"characters", result.Characters,
			"duration", time.Since(start),
		)
		return nil
	})
	if err != nil {
		p.logFailure(sess, "extract", err)
		return nil, err
	}

	return result, nil
}

func (p *pipeline) Search(ctx context.Context, sess *sessions.Session, industry string) (*SearchResult, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, ErrEmptyIndustry
	}

	query := Query(industry)
	var result *SearchResult

	err := sess.Run(ctx, func() error {
		start := time.Now()

		text, err := p.providers.Search.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSearchFailed, err)
		}

		sess.SetBenchmarks(sessions.Benchmarks{
			Industry:   industry,
			Query:      query,
			Text:       text,
			SearchedAt: time.Now().UTC(),
		})

		result = &SearchResult{
			Industry:   industry,
			Query:      query,
			Benchmarks: text,
		}

		p.logger.Info(
			"benchmarks stored",
			"session_id", sess.ID,
			"industry", industry,
			"characters", formatting.CharCount(text),
			"duration", time.Since(start),
		)
		return nil
	})
	if err != nil {
		p.logFailure(sess, "search", err)
		return nil, err
	}

	return result, nil
}

func (p *pipeline) Audit(ctx context.Context, sess *sessions.Session) (*AuditResult, error) {
	var result *AuditResult

	err := sess.Run(ctx, func() error {
		report, hasReport := sess.Report()
		benchmarks, hasBenchmarks := sess.Benchmarks()
		if !hasReport || !hasBenchmarks {
			return ErrMissingPrerequisites
		}

		key := sess.APIKey()
		if key == "" {
			return ErrMissingAPIKey
		}

		start := time.Now()

		excerpt, omitted := formatting.Truncate(report.Text, p.cfg.AuditReportChars)
		prompt := ComposeAuditPrompt(excerpt, benchmarks.Text, benchmarks.Industry)

		text, err := p.providers.Inference.Generate(ctx, key, prompt)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInferenceFailed, err)
		}

		sess.SetAudit(sessions.Audit{
			Text:            text,
			ReportTruncated: omitted > 0,
			CompletedAt:     time.Now().UTC(),
		})

		result = &AuditResult{
			Audit:             text,
			ReportTruncated:   omitted > 0,
			OmittedCharacters: omitted,
			Download:          fmt.Sprintf("sessions/%s/audit/report", sess.ID),
		}

		p.logger.Info(
			"audit complete",
			"session_id", sess.ID,
			"model", p.providers.Inference.Model(),
			"omitted_characters", omitted,
			"duration", time.Since(start),
		)
		return nil
	})
	if err != nil {
		p.logFailure(sess, "audit", err)
		return nil, err
	}

	return result, nil
}

func (p *pipeline) Chat(ctx context.Context, sess *sessions.Session, question string) (*ChatResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	var result *ChatResult

	err := sess.Run(ctx, func() error {
		report, ok := sess.Report()
		if !ok {
			return ErrMissingReport
		}

		key := sess.APIKey()
		if key == "" {
			return ErrMissingAPIKey
		}

		start := time.Now()

		excerpt, omitted := formatting.Truncate(report.Text, p.cfg.ChatReportChars)
		prompt := ComposeChatPrompt(excerpt, question)

		answer, err := p.providers.Inference.Generate(ctx, key, prompt)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInferenceFailed, err)
		}

		result = &ChatResult{
			Answer:            answer,
			ReportTruncated:   omitted > 0,
			OmittedCharacters: omitted,
		}

		p.logger.Info(
			"question answered",
			"session_id", sess.ID,
			"model", p.providers.Inference.Model(),
			"duration", time.Since(start),
		)
		return nil
	})
	if err != nil {
		p.logFailure(sess, "chat", err)
		return nil, err
	}

	return result, nil
}

func (p *pipeline) Report(sess *sessions.Session) (string, error) {
	audit, ok := sess.Audit()
	if !ok {
		return "", ErrNoAudit
	}
	return audit.Text, nil
}

func (p *pipeline) logFailure(sess *sessions.Session, action string, err error) {
	c := Classify(err)
	if c.Category != CategoryProvider {
		return
	}
	p.logger.Error(
		"action failed",
		"session_id", sess.ID,
		"action", action,
		"error", err,
	)
}
