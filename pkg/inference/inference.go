// Package inference sends free-text prompts to hosted language models.
//
// Providers are stateless: every call carries the full prompt and the
// caller's API key, and no conversation state is kept between calls.
package inference

import (
	"context"
	"fmt"
	"log/slog"
)

// Provider returns a free-text completion for a prompt.
type Provider interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
	// Model reports the model identifier requests are sent to.
	Model() string
}

// New creates the Provider named by cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (Provider, error) {
	logger = logger.With("system", "inference", "provider", cfg.Provider, "model", cfg.Model)

	switch cfg.Provider {
	case ProviderGemini:
		return newGemini(cfg, logger), nil
	case ProviderOpenAI:
		return newOpenAI(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
