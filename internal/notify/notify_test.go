package notify

import (
	"sync/atomic"
	"testing"
)

func TestReason_String(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonChange, "Change"},
		{ReasonRefresh, "Refresh"},
		{ReasonContext, "Context"},
		{Reason(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestDispatcher_Deliver(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var count atomic.Int32
	var lastPath atomic.Value

	d.Subscribe(func(event Event) {
		count.Add(1)
		lastPath.Store(event.Path)
	})

	d.Dispatch(Event{Reason: ReasonChange, Path: "/Products/0/Name"})
	d.Flush()

	if got := count.Load(); got != 1 {
		t.Errorf("delivered %d events, want 1", got)
	}
	if got := lastPath.Load(); got != "/Products/0/Name" {
		t.Errorf("event path = %v, want /Products/0/Name", got)
	}
}

func TestDispatcher_DeliveryIsAsynchronous(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var delivered atomic.Bool
	d.Subscribe(func(Event) {
		delivered.Store(true)
	})

	// Dispatch must return before the listener runs; the listener runs
	// on the dispatcher goroutine, never on this stack.
	d.Dispatch(Event{Reason: ReasonChange})

	d.Flush()
	if !delivered.Load() {
		t.Error("listener did not run after Flush")
	}
}

func TestDispatcher_MultipleListeners(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var a, b atomic.Int32
	d.Subscribe(func(Event) { a.Add(1) })
	d.Subscribe(func(Event) { b.Add(1) })

	d.Dispatch(Event{Reason: ReasonChange})
	d.Flush()

	if a.Load() != 1 || b.Load() != 1 {
		t.Errorf("listener counts = %d, %d; want 1, 1", a.Load(), b.Load())
	}
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var count atomic.Int32
	sub := d.Subscribe(func(Event) { count.Add(1) })

	d.Dispatch(Event{Reason: ReasonChange})
	d.Flush()

	sub.Unsubscribe()

	d.Dispatch(Event{Reason: ReasonChange})
	d.Flush()

	if got := count.Load(); got != 1 {
		t.Errorf("delivered %d events after unsubscribe, want 1", got)
	}
}

func TestDispatcher_PanickingListener(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var survived atomic.Bool
	d.Subscribe(func(Event) { panic("listener bug") })
	d.Subscribe(func(Event) { survived.Store(true) })

	d.Dispatch(Event{Reason: ReasonChange})
	d.Flush()

	if !survived.Load() {
		t.Error("panic in one listener broke delivery to others")
	}

	// The delivery goroutine must still be alive.
	d.Dispatch(Event{Reason: ReasonChange})
	d.Flush()
}

func TestDispatcher_Close(t *testing.T) {
	d := NewDispatcher()

	var count atomic.Int32
	d.Subscribe(func(Event) { count.Add(1) })

	d.Close()
	d.Close() // idempotent

	d.Dispatch(Event{Reason: ReasonChange})
	d.Flush()

	if got := count.Load(); got != 0 {
		t.Errorf("delivered %d events after Close, want 0", got)
	}
}
