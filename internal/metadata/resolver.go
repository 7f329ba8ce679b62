package metadata

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tetherui/tether/internal/async"
)

// Resolver infers display types for resolved paths from a metadata
// document. The document is JSON of the form:
//
//	{
//	  "types": [
//	    {"path": "/Products/*/Name", "type": "string", "maxLength": 40},
//	    {"path": "/Products/*/Price", "type": "float"},
//	    {"path": "/Updated", "type": "datetime", "nullable": true}
//	  ]
//	}
//
// A `*` segment matches exactly one path segment. Entries are tried in
// declaration order; the first match wins.
type Resolver struct {
	entries []entry

	// lookupDelay artificially delays lookups, mirroring a remote
	// metadata source. Used by tests to control completion ordering.
	lookupDelay time.Duration
}

type entry struct {
	pattern string
	typ     Type
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLookupDelay delays every type lookup by d before it settles.
func WithLookupDelay(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.lookupDelay = d
		}
	}
}

// NewResolver parses a metadata document into a Resolver.
func NewResolver(doc []byte, opts ...ResolverOption) (*Resolver, error) {
	if !gjson.ValidBytes(doc) {
		return nil, ErrInvalidMetadata
	}

	types := gjson.GetBytes(doc, "types")
	if !types.IsArray() {
		return nil, fmt.Errorf("%w: missing types array", ErrInvalidMetadata)
	}

	r := &Resolver{}
	var parseErr error
	types.ForEach(func(_, item gjson.Result) bool {
		pattern := item.Get("path").String()
		name := item.Get("type").String()
		if pattern == "" || name == "" {
			parseErr = fmt.Errorf("%w: entry needs path and type", ErrInvalidMetadata)
			return false
		}

		c := Constraints{
			Nullable:  item.Get("nullable").Bool(),
			MaxLength: int(item.Get("maxLength").Int()),
		}
		typ, err := TypeWithConstraints(name, c)
		if err != nil {
			parseErr = err
			return false
		}

		r.entries = append(r.entries, entry{pattern: pattern, typ: typ})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RequestType asynchronously looks up the type declared for a resolved
// path. The result fails with ErrNoTypeForPath when no entry matches.
func (r *Resolver) RequestType(resolved string) *async.Result[Type] {
	res := async.New[Type]()
	go func() {
		if r.lookupDelay > 0 {
			time.Sleep(r.lookupDelay)
		}
		typ, ok := r.lookup(resolved)
		if !ok {
			res.Fail(fmt.Errorf("%w: %s", ErrNoTypeForPath, resolved))
			return
		}
		res.Complete(typ)
	}()
	return res
}

// lookup returns the first entry whose pattern matches resolved.
func (r *Resolver) lookup(resolved string) (Type, bool) {
	for _, e := range r.entries {
		if matchPath(e.pattern, resolved) {
			return e.typ, true
		}
	}
	return nil, false
}

// matchPath matches a path against a pattern segment by segment; a `*`
// pattern segment matches any single path segment.
func matchPath(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	ts := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(ts) {
		return false
	}
	for i, p := range ps {
		if p != "*" && p != ts[i] {
			return false
		}
	}
	return true
}
