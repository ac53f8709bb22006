package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type openAI struct {
	baseURL string
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func newOpenAI(cfg *Config, logger *slog.Logger) *openAI {
	return &openAI{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: cfg.TimeoutDuration(),
		logger:  logger,
	}
}

func (o *openAI) Model() string {
	return o.model
}

// client is built per call because the key belongs to the session, not
// the process.
func (o *openAI) client(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = o.baseURL
	cfg.HTTPClient = &http.Client{Timeout: o.timeout}
	return openai.NewClientWithConfig(cfg)
}

func (o *openAI) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	start := time.Now()

	resp, err := o.client(apiKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", ErrRequestFailed, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content

	o.logger.Info(
		"generation complete",
		"prompt_chars", len([]rune(prompt)),
		"response_chars", len([]rune(text)),
		"duration", time.Since(start),
	)

	return text, nil
}
