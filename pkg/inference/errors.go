package inference

import "errors"

var (
	// ErrMissingAPIKey indicates Generate was called without an API key.
	ErrMissingAPIKey = errors.New("api key required")
	// ErrRequestFailed indicates the provider could not be reached or
	// answered with a non-success status.
	ErrRequestFailed = errors.New("inference request failed")
	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("inference returned no text")
	// ErrUnknownProvider indicates an unsupported provider name in config.
	ErrUnknownProvider = errors.New("unknown inference provider")
)
