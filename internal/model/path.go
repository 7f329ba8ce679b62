package model

import "strings"

// Context is a base path used to resolve relative binding paths into
// absolute ones. A Context is owned by the binding's creator; bindings
// hold it by reference and compare contexts by identity.
type Context struct {
	base string
}

// NewContext creates a context for the given absolute base path.
func NewContext(base string) *Context {
	return &Context{base: strings.TrimRight(base, "/")}
}

// Path returns the context's absolute base path.
func (c *Context) Path() string {
	return c.base
}

// IsAbsolute reports whether path is absolute (starts with a slash).
func IsAbsolute(path string) bool {
	return strings.HasPrefix(path, "/")
}

// ResolvePath combines a binding path with a context. An absolute path
// resolves to itself; a relative path requires a context with an
// absolute base. The empty string is returned when resolution is not
// possible.
func ResolvePath(path string, ctx *Context) string {
	if path == "" {
		return ""
	}
	if IsAbsolute(path) {
		return path
	}
	if ctx == nil || ctx.base == "" || !IsAbsolute(ctx.base) {
		return ""
	}
	return ctx.base + "/" + strings.Trim(path, "/")
}

// toQuery converts a resolved slash path into a gjson query.
// Segment text is escaped so literal dots or wildcards in property
// names do not change the query's meaning.
func toQuery(resolved string) string {
	segments := strings.Split(strings.Trim(resolved, "/"), "/")
	escaped := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		escaped = append(escaped, escapeSegment(seg))
	}
	return strings.Join(escaped, ".")
}

// escapeSegment backslash-escapes gjson metacharacters in a path segment.
func escapeSegment(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		switch r {
		case '.', '*', '?', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
