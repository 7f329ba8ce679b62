package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tetherui/tether/internal/async"
)

// Model is the contract consumed by property bindings.
type Model interface {
	// Resolve combines path with ctx into an absolute path, or returns
	// the empty string when the path cannot be resolved.
	Resolve(path string, ctx *Context) string

	// Read asynchronously fetches the value at an absolute path.
	// The result fails when no value exists at the path.
	Read(resolved string) *async.Result[any]
}

// JSONModel serves reads from an in-memory JSON document. The document
// can be swapped wholesale with Reload, which is how live reload from
// a data file is implemented.
type JSONModel struct {
	mu  sync.RWMutex
	doc []byte

	// readDelay artificially delays reads. Used by tests and demos to
	// exercise asynchronous completion ordering.
	readDelay time.Duration
}

// Option configures a JSONModel.
type Option func(*JSONModel)

// WithReadDelay delays every read by d before it settles.
func WithReadDelay(d time.Duration) Option {
	return func(m *JSONModel) {
		if d > 0 {
			m.readDelay = d
		}
	}
}

// NewJSON creates a model over the given JSON document.
func NewJSON(doc []byte, opts ...Option) (*JSONModel, error) {
	if !gjson.ValidBytes(doc) {
		return nil, ErrInvalidDocument
	}
	m := &JSONModel{doc: doc}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Resolve implements Model.
func (m *JSONModel) Resolve(path string, ctx *Context) string {
	return ResolvePath(path, ctx)
}

// Read implements Model. The returned result settles on a separate
// goroutine; it fails with ErrPathNotFound when the path does not
// exist in the document.
func (m *JSONModel) Read(resolved string) *async.Result[any] {
	res := async.New[any]()
	go func() {
		if m.readDelay > 0 {
			time.Sleep(m.readDelay)
		}
		if resolved == "" {
			res.Fail(ErrEmptyPath)
			return
		}

		m.mu.RLock()
		r := gjson.GetBytes(m.doc, toQuery(resolved))
		m.mu.RUnlock()

		if !r.Exists() {
			res.Fail(fmt.Errorf("%w: %s", ErrPathNotFound, resolved))
			return
		}
		res.Complete(r.Value())
	}()
	return res
}

// Get synchronously looks up the value at an absolute path.
func (m *JSONModel) Get(resolved string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r := gjson.GetBytes(m.doc, toQuery(resolved))
	if !r.Exists() {
		return nil, false
	}
	return r.Value(), true
}

// Set writes value at an absolute path, growing the document as
// needed. Bindings do not write through the model; Set exists for the
// owning application and for tests.
func (m *JSONModel) Set(resolved string, value any) error {
	if resolved == "" {
		return ErrEmptyPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := sjson.SetBytes(m.doc, toQuery(resolved), value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", resolved, err)
	}
	m.doc = doc
	return nil
}

// Reload replaces the entire backing document.
func (m *JSONModel) Reload(doc []byte) error {
	if !gjson.ValidBytes(doc) {
		return ErrInvalidDocument
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	return nil
}

// Document returns a copy of the current backing document.
func (m *JSONModel) Document() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]byte, len(m.doc))
	copy(out, m.doc)
	return out
}
