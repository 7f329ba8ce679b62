package binding

import "errors"

// Errors returned by binding operations.
var (
	// ErrNotImplemented indicates an operation this binding kind does
	// not support.
	ErrNotImplemented = errors.New("operation not implemented")

	// ErrNilModel indicates a binding was created without a model.
	ErrNilModel = errors.New("nil model")

	// ErrEmptyPath indicates a binding was created with an empty path.
	ErrEmptyPath = errors.New("empty binding path")
)
