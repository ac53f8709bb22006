package search

import "errors"

var (
	// ErrEmptyQuery indicates a blank query string.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrRequestFailed indicates the search backend could not be reached or
	// answered with a non-success status.
	ErrRequestFailed = errors.New("search request failed")
	// ErrUnknownProvider indicates an unsupported provider name in config.
	ErrUnknownProvider = errors.New("unknown search provider")
)
