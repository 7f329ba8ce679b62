package format

import "errors"

// Errors returned by formatter operations.
var (
	// ErrEmptyExpression indicates an empty formatter expression.
	ErrEmptyExpression = errors.New("empty formatter expression")

	// ErrFormatterClosed indicates use of a closed formatter.
	ErrFormatterClosed = errors.New("formatter is closed")
)
