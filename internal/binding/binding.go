package binding

import (
	"github.com/tetherui/tether/internal/async"
	"github.com/tetherui/tether/internal/metadata"
	"github.com/tetherui/tether/internal/model"
)

// Model is the model contract a binding consumes. model.JSONModel
// satisfies it; tests substitute stubs.
type Model interface {
	// Resolve combines path with ctx into an absolute path, or returns
	// the empty string when the path cannot be resolved.
	Resolve(path string, ctx *model.Context) string

	// Read asynchronously fetches the value at an absolute path.
	Read(resolved string) *async.Result[any]
}

// TypeResolver is the metadata contract a binding consumes for
// automatic type determination.
type TypeResolver interface {
	// RequestType asynchronously looks up the display type declared
	// for a resolved path.
	RequestType(resolved string) *async.Result[metadata.Type]
}

// Binding is the capability surface a bound UI property exposes to its
// owner.
type Binding interface {
	// CheckUpdate re-resolves the path, fetches the current value, and
	// raises a change notification when the value differs from the
	// cached one (or unconditionally when force is set). The returned
	// channel closes once the value fetch has settled; it never
	// reports an error.
	CheckUpdate(force bool) <-chan struct{}

	// Value returns the last fetched value, or nil before the first
	// successful fetch.
	Value() any

	// SetContext replaces the binding's context. A changed context on
	// a relative path triggers CheckUpdate(false).
	SetContext(ctx *model.Context)

	// SetValue writes a value back through the binding. Property
	// bindings do not support write-back and always fail.
	SetValue(value any) error

	// Path returns the binding's (possibly relative) path.
	Path() string

	// Context returns the binding's current context.
	Context() *model.Context
}
