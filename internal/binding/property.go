package binding

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/tetherui/tether/internal/format"
	"github.com/tetherui/tether/internal/log"
	"github.com/tetherui/tether/internal/metadata"
	"github.com/tetherui/tether/internal/model"
	"github.com/tetherui/tether/internal/notify"
)

// settled is returned by CheckUpdate when there is nothing to do.
var settled = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// PropertyBinding binds one scalar model property. Create instances
// with NewProperty; the zero value is not usable.
//
// Concurrent CheckUpdate calls are permitted and are not coalesced;
// each call starts its own fetch. Listeners are notified from a
// dedicated delivery goroutine, never from the caller's stack.
type PropertyBinding struct {
	id   string
	path string

	mdl   Model
	types TypeResolver

	mu            sync.Mutex
	ctx           *model.Context
	resolved      string
	cached        any
	hasValue      bool
	typePending   bool
	typeRequested bool
	typ           metadata.Type
	formatter     format.Formatter
	autoType      bool

	dispatcher *notify.Dispatcher
	log        *log.Logger
}

var _ Binding = (*PropertyBinding)(nil)

// NewProperty creates a binding for path against mdl.
func NewProperty(mdl Model, path string, opts ...Option) (*PropertyBinding, error) {
	if mdl == nil {
		return nil, ErrNilModel
	}
	if path == "" {
		return nil, ErrEmptyPath
	}

	b := &PropertyBinding{
		id:         uuid.NewString(),
		path:       path,
		mdl:        mdl,
		dispatcher: notify.NewDispatcher(),
		log:        log.Null,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// ID returns the binding's unique identifier, used in diagnostics.
func (b *PropertyBinding) ID() string {
	return b.id
}

// Path returns the binding's (possibly relative) path.
func (b *PropertyBinding) Path() string {
	return b.path
}

// Context returns the binding's current context.
func (b *PropertyBinding) Context() *model.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// OnChange registers a listener for this binding's change events.
func (b *PropertyBinding) OnChange(listener notify.Listener) *notify.Subscription {
	return b.dispatcher.Subscribe(listener)
}

// CheckUpdate implements Binding.
//
// The value fetch and the optional type lookup run concurrently and
// are not ordered relative to each other. The returned channel closes
// when the value fetch settles; the type lookup is not awaited.
func (b *PropertyBinding) CheckUpdate(force bool) <-chan struct{} {
	b.mu.Lock()

	resolved := b.mdl.Resolve(b.path, b.ctx)
	if resolved == "" {
		b.mu.Unlock()
		return settled
	}
	b.resolved = resolved

	if b.autoType && !b.typeRequested && b.typ == nil && b.formatter == nil && b.types != nil {
		// One-shot: never request again for this binding, regardless
		// of how the request turns out.
		b.typeRequested = true
		b.typePending = true
		b.requestType(resolved)
	}

	read := b.mdl.Read(resolved)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-read.Done()
		if read.Err() != nil {
			// Failed reads are discarded without logging so owners
			// never observe collaborator noise.
			return
		}

		value := read.Value()
		b.mu.Lock()
		b.hasValue = true
		var (
			event notify.Event
			fire  bool
		)
		if force || !reflect.DeepEqual(value, b.cached) {
			b.cached = value
			reason := notify.ReasonChange
			if force {
				reason = notify.ReasonRefresh
			}
			event, fire = b.changeEventLocked(reason)
		}
		b.mu.Unlock()
		if fire {
			b.dispatcher.Dispatch(event)
		}
	}()
	return done
}

// requestType starts the asynchronous type lookup. Caller holds b.mu.
func (b *PropertyBinding) requestType(resolved string) {
	res := b.types.RequestType(resolved)
	go func() {
		<-res.Done()

		b.mu.Lock()
		if err := res.Err(); err != nil {
			b.log.WithField("binding", b.id).Warn("type lookup for %s failed: %v", resolved, err)
		} else {
			b.typ = res.Value()
		}
		b.typePending = false
		event, fire := b.changeEventLocked(notify.ReasonChange)
		b.mu.Unlock()

		if fire {
			b.dispatcher.Dispatch(event)
		}
	}()
}

// changeEventLocked builds the change notification when one is due: a
// value is present and no type lookup is pending. Caller holds b.mu.
// The event is dispatched after the lock is released so a slow
// listener can never block the binding's own mutex.
func (b *PropertyBinding) changeEventLocked(reason notify.Reason) (notify.Event, bool) {
	if b.typePending || !b.hasValue {
		return notify.Event{}, false
	}
	return notify.Event{
		Reason: reason,
		Path:   b.resolved,
		Value:  b.cached,
		Source: b.id,
	}, true
}

// Value implements Binding. It returns the cached value without any
// freshness check.
func (b *PropertyBinding) Value() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cached
}

// HasValue reports whether at least one fetch has completed.
func (b *PropertyBinding) HasValue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasValue
}

// Type returns the binding's display type, explicit or inferred, or
// nil.
func (b *PropertyBinding) Type() metadata.Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.typ
}

// FormattedValue renders the cached value using the binding's
// formatter, falling back to its type and then to a plain rendering.
func (b *PropertyBinding) FormattedValue() (string, error) {
	b.mu.Lock()
	value := b.cached
	f := b.formatter
	typ := b.typ
	b.mu.Unlock()

	switch {
	case f != nil:
		return f.Format(value)
	case typ != nil:
		return typ.FormatValue(value)
	default:
		return format.Default().Format(value)
	}
}

// SetContext implements Binding. Contexts are compared by identity; a
// no-op when unchanged. A replaced context is announced to listeners
// before any refetch it triggers.
func (b *PropertyBinding) SetContext(ctx *model.Context) {
	b.mu.Lock()
	if b.ctx == ctx {
		b.mu.Unlock()
		return
	}
	b.ctx = ctx
	event := notify.Event{
		Reason: notify.ReasonContext,
		Path:   b.mdl.Resolve(b.path, ctx),
		Value:  b.cached,
		Source: b.id,
	}
	relative := !model.IsAbsolute(b.path)
	b.mu.Unlock()

	b.dispatcher.Dispatch(event)
	if relative {
		b.CheckUpdate(false)
	}
}

// SetValue implements Binding. Two-way write-back is not available for
// this binding kind; the error names the operation and its arguments.
func (b *PropertyBinding) SetValue(value any) error {
	args, err := json.Marshal(value)
	if err != nil {
		args = fmt.Appendf(nil, "%v", value)
	}
	return fmt.Errorf("%w: SetValue(%s)", ErrNotImplemented, args)
}

// Close stops the binding's notification delivery. Outstanding fetches
// finish on their own; their results are ignored.
func (b *PropertyBinding) Close() {
	b.dispatcher.Close()
}
