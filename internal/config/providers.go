package config

import (
	"fmt"

	"github.com/JaimeStill/auditor/pkg/inference"
	"github.com/JaimeStill/auditor/pkg/search"
)

var searchEnv = &search.Env{
	Provider:   "AUDITOR_SEARCH_PROVIDER",
	BaseURL:    "AUDITOR_SEARCH_BASE_URL",
	MaxResults: "AUDITOR_SEARCH_MAX_RESULTS",
	Timeout:    "AUDITOR_SEARCH_TIMEOUT",
	UserAgent:  "AUDITOR_SEARCH_USER_AGENT",
}

var inferenceEnv = &inference.Env{
	Provider: "AUDITOR_INFERENCE_PROVIDER",
	BaseURL:  "AUDITOR_INFERENCE_BASE_URL",
	Model:    "AUDITOR_INFERENCE_MODEL",
	Timeout:  "AUDITOR_INFERENCE_TIMEOUT",
}

// ProvidersConfig holds the external search and inference provider settings.
type ProvidersConfig struct {
	Search    search.Config    `toml:"search"`
	Inference inference.Config `toml:"inference"`
}

// Finalize finalizes each provider config.
func (c *ProvidersConfig) Finalize() error {
	if err := c.Search.Finalize(searchEnv); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Inference.Finalize(inferenceEnv); err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ProvidersConfig) Merge(overlay *ProvidersConfig) {
	c.Search.Merge(&overlay.Search)
	c.Inference.Merge(&overlay.Inference)
}
