package metadata

import "errors"

// Errors returned by metadata operations.
var (
	// ErrUnknownType indicates a type name with no registered type.
	ErrUnknownType = errors.New("unknown type")

	// ErrNoTypeForPath indicates the metadata document has no entry
	// matching the requested path.
	ErrNoTypeForPath = errors.New("no type declared for path")

	// ErrInvalidMetadata indicates the metadata document is malformed.
	ErrInvalidMetadata = errors.New("invalid metadata document")

	// ErrValueOutOfRange indicates a value violates a type constraint.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrWrongValueKind indicates a value of an unsupported Go kind was
	// handed to a type.
	ErrWrongValueKind = errors.New("wrong value kind for type")
)
