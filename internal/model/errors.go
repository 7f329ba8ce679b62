package model

import "errors"

// Errors returned by model operations.
var (
	// ErrInvalidDocument indicates the backing document is not valid JSON.
	ErrInvalidDocument = errors.New("invalid JSON document")

	// ErrPathNotFound indicates no value exists at the requested path.
	ErrPathNotFound = errors.New("path not found")

	// ErrEmptyPath indicates an empty path was supplied.
	ErrEmptyPath = errors.New("empty path")
)
