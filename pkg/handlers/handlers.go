// Package handlers provides shared JSON request and response helpers for
// HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// MaxJSONBody caps the size of JSON request bodies read by DecodeJSON.
const MaxJSONBody = 64 << 10

// ErrInvalidJSON is returned by DecodeJSON for bodies that are empty,
// oversized, malformed, or followed by trailing data.
var ErrInvalidJSON = errors.New("invalid JSON body")

// Problem is the JSON body of an error response. Category and Severity let
// clients decide how to present the message.
type Problem struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondNoContent writes an empty 204 response.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError logs err and writes it as a bare Problem.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	RespondProblem(w, logger, status, err, Problem{Error: err.Error()})
}

// RespondProblem logs err and writes p. Server errors are logged at error
// level and client errors at warn level; err itself is never sent.
func RespondProblem(w http.ResponseWriter, logger *slog.Logger, status int, err error, p Problem) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
	} else {
		logger.Warn("handler error", "error", err, "status", status)
	}
	RespondJSON(w, status, p)
}

// DecodeJSON reads a single JSON value from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return nil
}
