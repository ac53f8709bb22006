package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/auditor/pkg/handlers"
)

// Domain errors for session operations.
var (
	ErrNotFound    = errors.New("session not found")
	ErrInvalidID   = errors.New("invalid session id")
	ErrInvalidBody = errors.New("invalid request body")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidBody) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Problem returns the JSON error body for a session error.
func Problem(err error) handlers.Problem {
	msg := "internal error"
	for _, known := range []error{ErrNotFound, ErrInvalidID, ErrInvalidBody} {
		if errors.Is(err, known) {
			msg = known.Error()
			break
		}
	}

	return handlers.Problem{
		Error:    msg,
		Category: "session",
		Severity: "error",
	}
}
