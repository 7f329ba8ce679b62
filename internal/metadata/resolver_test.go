package metadata

import (
	"errors"
	"testing"
	"time"
)

const testMetadata = `{
	"types": [
		{"path": "/Products/*/Name", "type": "string", "maxLength": 40},
		{"path": "/Products/*/Price", "type": "float"},
		{"path": "/Products/*/InStock", "type": "bool"},
		{"path": "/Updated", "type": "datetime", "nullable": true},
		{"path": "/Products/*/ID", "type": "int"}
	]
}`

func newTestResolver(t *testing.T, opts ...ResolverOption) *Resolver {
	t.Helper()
	r, err := NewResolver([]byte(testMetadata), opts...)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r
}

func TestNewResolver_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "{oops"},
		{"missing types", `{"other": 1}`},
		{"entry without type", `{"types": [{"path": "/A"}]}`},
		{"unknown type name", `{"types": [{"path": "/A", "type": "quaternion"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResolver([]byte(tt.doc)); err == nil {
				t.Error("NewResolver() expected error")
			}
		})
	}
}

func TestResolver_RequestType(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		path     string
		wantName string
	}{
		{"/Products/0/Name", "string"},
		{"/Products/17/Price", "float"},
		{"/Products/2/InStock", "bool"},
		{"/Products/3/ID", "int"},
		{"/Updated", "datetime"},
	}

	for _, tt := range tests {
		typ, err := r.RequestType(tt.path).Wait()
		if err != nil {
			t.Errorf("RequestType(%q) error = %v", tt.path, err)
			continue
		}
		if typ.Name() != tt.wantName {
			t.Errorf("RequestType(%q) = %q, want %q", tt.path, typ.Name(), tt.wantName)
		}
	}
}

func TestResolver_RequestType_NoMatch(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.RequestType("/Orders/0/Total").Wait()
	if !errors.Is(err, ErrNoTypeForPath) {
		t.Errorf("RequestType() error = %v, want ErrNoTypeForPath", err)
	}

	// Wildcards match exactly one segment.
	_, err = r.RequestType("/Products/0/Nested/Name").Wait()
	if !errors.Is(err, ErrNoTypeForPath) {
		t.Errorf("RequestType() error = %v, want ErrNoTypeForPath", err)
	}
}

func TestResolver_LookupDelay(t *testing.T) {
	r := newTestResolver(t, WithLookupDelay(20*time.Millisecond))

	res := r.RequestType("/Updated")
	if res.Settled() {
		t.Error("delayed lookup settled synchronously")
	}
	if _, err := res.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}
