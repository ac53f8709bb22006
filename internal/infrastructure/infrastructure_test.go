package infrastructure_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/auditor/internal/config"
	"github.com/JaimeStill/auditor/internal/infrastructure"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("config.LoadFrom() error = %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Sessions == nil {
		t.Error("Sessions is nil")
	}
	if infra.Extractor == nil {
		t.Error("Extractor is nil")
	}
	if infra.Search == nil {
		t.Error("Search is nil")
	}
	if infra.Inference == nil {
		t.Error("Inference is nil")
	}
	if infra.Inference.Model() != "gemini-3-flash-preview" {
		t.Errorf("model: got %s", infra.Inference.Model())
	}
}

func TestStartAndShutdown(t *testing.T) {
	infra, err := infrastructure.New(validConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	infra.Sessions.Create()
	infra.Sessions.Create()

	if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if n := infra.Sessions.Count(); n != 0 {
		t.Errorf("sessions after shutdown: got %d, want 0", n)
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditor.log")

	cfg := &config.LoggingConfig{File: path, Format: "json"}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	logger, closer := infrastructure.NewLogger(cfg)
	logger.Info("session created", "session_id", "abc")
	logger.Debug("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, `"msg":"session created"`) || !strings.Contains(out, `"session_id":"abc"`) {
		t.Errorf("log file missing record: %s", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug record written at info level")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := validConfig(t)
	cfg.Providers.Inference.Provider = "llama"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for unknown inference provider")
	}
}
