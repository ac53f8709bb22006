package extract

import "errors"

var (
	// ErrEmptyDocument indicates no bytes were supplied.
	ErrEmptyDocument = errors.New("empty document")
	// ErrMalformed indicates the bytes could not be parsed as a PDF.
	ErrMalformed = errors.New("malformed pdf")
	// ErrPageFailed indicates text extraction failed on a specific page.
	ErrPageFailed = errors.New("page extraction failed")
)
