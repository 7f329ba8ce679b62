package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrNoDataFile indicates the configuration names no data file.
	ErrNoDataFile = errors.New("no data file configured")

	// ErrInvalidBinding indicates a malformed binding declaration.
	ErrInvalidBinding = errors.New("invalid binding declaration")

	// ErrInvalidWatch indicates malformed watch settings.
	ErrInvalidWatch = errors.New("invalid watch settings")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string

	// Message describes the parse failure.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
