package binding

import (
	"github.com/tetherui/tether/internal/format"
	"github.com/tetherui/tether/internal/log"
	"github.com/tetherui/tether/internal/metadata"
	"github.com/tetherui/tether/internal/model"
)

// Option configures a PropertyBinding at construction. Options are
// consumed once; the binding keeps its own durable state afterwards.
type Option func(*PropertyBinding)

// WithContext sets the initial context for relative path resolution.
func WithContext(ctx *model.Context) Option {
	return func(b *PropertyBinding) {
		b.ctx = ctx
	}
}

// WithType sets an explicit display type. A binding with an explicit
// type never performs automatic type determination.
func WithType(typ metadata.Type) Option {
	return func(b *PropertyBinding) {
		b.typ = typ
	}
}

// WithFormatter sets an explicit value formatter. A binding with a
// formatter never performs automatic type determination.
func WithFormatter(f format.Formatter) Option {
	return func(b *PropertyBinding) {
		b.formatter = f
	}
}

// WithTypeResolver sets the metadata resolver used for automatic type
// determination.
func WithTypeResolver(r TypeResolver) Option {
	return func(b *PropertyBinding) {
		b.types = r
	}
}

// WithAutoTypeDetect enables the one-shot automatic type lookup on the
// first update that finds no explicit type or formatter.
func WithAutoTypeDetect() Option {
	return func(b *PropertyBinding) {
		b.autoType = true
	}
}

// WithLogger sets the binding's diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(b *PropertyBinding) {
		if l != nil {
			b.log = l
		}
	}
}
