package poml

import "errors"

var (
	// ErrMarkupNotFound is returned when the markup input references a file
	// path that does not exist.
	ErrMarkupNotFound = errors.New("markup file not found")

	// ErrContextNotFound is returned when the context input references a
	// file path that does not exist.
	ErrContextNotFound = errors.New("context file not found")

	// ErrStylesheetNotFound is returned when the stylesheet input references
	// a file path that does not exist.
	ErrStylesheetNotFound = errors.New("stylesheet file not found")
)
