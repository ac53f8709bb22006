// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, session state, external providers) that
// domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/auditor/internal/config"
	"github.com/JaimeStill/auditor/internal/sessions"
	"github.com/JaimeStill/auditor/pkg/extract"
	"github.com/JaimeStill/auditor/pkg/inference"
	"github.com/JaimeStill/auditor/pkg/lifecycle"
	"github.com/JaimeStill/auditor/pkg/search"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Sessions  *sessions.Store
	Extractor extract.Extractor
	Search    search.Provider
	Inference inference.Provider

	logOutput io.Closer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger, logOutput := NewLogger(&cfg.Logging)

	searcher, err := search.New(&cfg.Providers.Search, logger)
	if err != nil {
		return nil, fmt.Errorf("search init failed: %w", err)
	}

	model, err := inference.New(&cfg.Providers.Inference, logger)
	if err != nil {
		return nil, fmt.Errorf("inference init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Sessions:  sessions.New(&cfg.Session, logger),
		Extractor: extract.New(cfg.Pipeline.ExtractWorkers, logger),
		Search:    searcher,
		Inference: model,
		logOutput: logOutput,
	}, nil
}

// Start registers infrastructure systems with the lifecycle coordinator.
// The log output is registered first so it closes after every other system.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnShutdown("logging", func(context.Context) error {
		i.Logger.Info("closing log output")
		return i.logOutput.Close()
	})

	i.Sessions.Start(i.Lifecycle)

	return nil
}
