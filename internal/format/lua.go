package format

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LuaFormatter evaluates a Lua expression to format values. The raw
// value is exposed as the global `value`; the expression's result is
// converted to a string. Example expressions:
//
//	string.upper(value)
//	string.format("%.2f EUR", value)
//	value and "yes" or "no"
//
// A gopher-lua LState is not goroutine-safe, so calls serialize
// through a mutex-free single-owner design: all evaluation happens
// under an internal lock.
type LuaFormatter struct {
	state   *lua.LState
	fn      *lua.LFunction
	timeout time.Duration

	// calls serializes access to the LState.
	calls chan struct{}

	closed bool
}

// LuaOption configures a LuaFormatter.
type LuaOption func(*LuaFormatter)

// WithTimeout bounds the evaluation time of a single Format call.
func WithTimeout(d time.Duration) LuaOption {
	return func(f *LuaFormatter) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewLua compiles expr into a reusable formatter.
func NewLua(expr string, opts ...LuaOption) (*LuaFormatter, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}

	L := lua.NewState()
	fn, err := L.LoadString("return " + expr)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("compiling formatter expression: %w", err)
	}

	f := &LuaFormatter{
		state:   L,
		fn:      fn,
		timeout: time.Second,
		calls:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Format implements Formatter.
func (f *LuaFormatter) Format(value any) (string, error) {
	f.calls <- struct{}{}
	defer func() { <-f.calls }()

	if f.closed {
		return "", ErrFormatterClosed
	}

	L := f.state
	L.SetGlobal("value", toLua(L, value))

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	L.Push(f.fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return "", fmt.Errorf("formatter expression: %w", err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	if ret == lua.LNil {
		return "", nil
	}
	return ret.String(), nil
}

// Close releases the underlying Lua state. Further Format calls fail
// with ErrFormatterClosed.
func (f *LuaFormatter) Close() {
	f.calls <- struct{}{}
	defer func() { <-f.calls }()

	if f.closed {
		return
	}
	f.closed = true
	f.state.Close()
}

// toLua converts a Go value (as decoded from JSON) into a Lua value.
func toLua(L *lua.LState, value any) lua.LValue {
	switch v := value.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case []any:
		tbl := L.NewTable()
		for _, item := range v {
			tbl.Append(toLua(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for key, item := range v {
			tbl.RawSetString(key, toLua(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}
