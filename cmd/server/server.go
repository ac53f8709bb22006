package main

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/auditor/internal/config"
	"github.com/JaimeStill/auditor/internal/infrastructure"
	"github.com/JaimeStill/auditor/pkg/formatting"
)

// Server owns the assembled infrastructure, the mounted modules, and the
// HTTP listener for one process.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"auditor initialized",
		"version", cfg.Version,
		"env", cfg.Env(),
		"addr", cfg.Server.Addr(),
		"modules", router.Prefixes(),
		"max_upload", formatting.FormatBytes(cfg.API.MaxUploadSizeBytes(), 0),
		"search_provider", cfg.Providers.Search.Provider,
		"inference_provider", cfg.Providers.Inference.Provider,
		"model", infra.Inference.Model(),
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Run starts every subsystem, serves until ctx is cancelled, then shuts
// down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	if err := s.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	<-ctx.Done()

	if err := s.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "sessions", s.infra.Sessions.Count(), "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
