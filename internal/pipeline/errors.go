package pipeline

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/auditor/internal/sessions"
	"github.com/JaimeStill/auditor/pkg/handlers"
)

// Domain errors for pipeline actions. Provider failures wrap the
// underlying cause.
var (
	ErrEmptyIndustry        = errors.New("industry is empty")
	ErrEmptyQuestion        = errors.New("question is empty")
	ErrMissingReport        = errors.New("report text missing")
	ErrMissingPrerequisites = errors.New("report text or benchmarks missing")
	ErrMissingAPIKey        = errors.New("api key not configured")
	ErrNoAudit              = errors.New("no audit result")
	ErrInvalidFile          = errors.New("invalid file")
	ErrFileTooLarge         = errors.New("file exceeds maximum upload size")
	ErrInvalidRequest       = errors.New("invalid request body")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrSearchFailed         = errors.New("search failed")
	ErrInferenceFailed      = errors.New("inference failed")
)

// Category groups errors by where they originate.
type Category string

const (
	CategoryPrecondition Category = "precondition"
	CategoryProvider     Category = "provider"
	CategorySession      Category = "session"
	CategoryInternal     Category = "internal"
)

// Severity tells the UI how to present an error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Classification is the user-facing description of an error.
type Classification struct {
	Category Category
	Severity Severity
	Status   int
	Message  string
}

var classifications = []struct {
	err error
	Classification
}{
	{ErrEmptyIndustry, Classification{CategoryPrecondition, SeverityWarning, http.StatusBadRequest, "Please enter an industry name."}},
	{ErrEmptyQuestion, Classification{CategoryPrecondition, SeverityWarning, http.StatusBadRequest, "Please enter a question."}},
	{ErrMissingReport, Classification{CategoryPrecondition, SeverityError, http.StatusConflict, "Please upload the PDF in Tab 1 first!"}},
	{ErrMissingPrerequisites, Classification{CategoryPrecondition, SeverityError, http.StatusConflict, "Error: Please complete Tab 1 and Tab 2 first!"}},
	{ErrMissingAPIKey, Classification{CategoryPrecondition, SeverityError, http.StatusConflict, "Please enter your API key in the sidebar first."}},
	{ErrNoAudit, Classification{CategoryPrecondition, SeverityError, http.StatusNotFound, "Run the audit before downloading the report."}},
	{ErrInvalidFile, Classification{CategoryPrecondition, SeverityError, http.StatusBadRequest, "Please choose a PDF file to upload."}},
	{ErrFileTooLarge, Classification{CategoryPrecondition, SeverityError, http.StatusRequestEntityTooLarge, "The file exceeds the maximum upload size."}},
	{ErrInvalidRequest, Classification{CategoryPrecondition, SeverityError, http.StatusBadRequest, "The request body could not be read."}},
	{ErrExtractionFailed, Classification{CategoryProvider, SeverityError, http.StatusUnprocessableEntity, "The PDF could not be read."}},
	{ErrSearchFailed, Classification{CategoryProvider, SeverityError, http.StatusBadGateway, "The benchmark search failed."}},
	{ErrInferenceFailed, Classification{CategoryProvider, SeverityError, http.StatusBadGateway, "The language model request failed."}},
}

// Classify returns the classification of err. Session errors keep their
// own message; anything unrecognized is an internal error.
func Classify(err error) Classification {
	for _, c := range classifications {
		if errors.Is(err, c.err) {
			return c.Classification
		}
	}

	if errors.Is(err, sessions.ErrNotFound) || errors.Is(err, sessions.ErrInvalidID) {
		return Classification{CategorySession, SeverityError, sessions.MapHTTPStatus(err), err.Error()}
	}

	return Classification{CategoryInternal, SeverityError, http.StatusInternalServerError, "An unexpected error occurred."}
}

// MapHTTPStatus maps pipeline domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	return Classify(err).Status
}

// Problem returns the JSON error body for err.
func Problem(err error) handlers.Problem {
	c := Classify(err)
	return handlers.Problem{
		Error:    c.Message,
		Category: string(c.Category),
		Severity: string(c.Severity),
	}
}
