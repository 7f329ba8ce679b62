// Package format renders raw model values for display.
//
// A binding may carry an explicit Formatter instead of (or in addition
// to) a declared type. Formatters come in two flavors: a bridge over a
// metadata type, and a Lua expression evaluated with the raw value in
// scope.
package format

import (
	"fmt"

	"github.com/tetherui/tether/internal/metadata"
)

// Formatter renders a raw model value as display text.
type Formatter interface {
	Format(value any) (string, error)
}

// Func adapts a function to the Formatter interface.
type Func func(value any) (string, error)

// Format implements Formatter.
func (f Func) Format(value any) (string, error) {
	return f(value)
}

// FromType bridges a metadata type to a Formatter.
func FromType(typ metadata.Type) Formatter {
	return Func(func(value any) (string, error) {
		return typ.FormatValue(value)
	})
}

// Default renders any value with fmt. Nil renders as the empty string.
func Default() Formatter {
	return Func(func(value any) (string, error) {
		if value == nil {
			return "", nil
		}
		return fmt.Sprintf("%v", value), nil
	})
}
