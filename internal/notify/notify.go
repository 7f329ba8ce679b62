// Package notify provides change notification for property bindings.
//
// Delivery is always asynchronous: events are queued on a buffered
// channel and delivered from a dedicated goroutine, so a listener
// never runs on the stack that raised the change. This keeps observers
// from re-entering binding update logic synchronously.
package notify

import (
	"sync"
)

// Reason describes why a change notification was raised.
type Reason int

const (
	// ReasonChange indicates the bound value (or its type) changed.
	ReasonChange Reason = iota

	// ReasonRefresh indicates an unconditional refresh was requested.
	ReasonRefresh

	// ReasonContext indicates the binding's context was replaced.
	ReasonContext
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonChange:
		return "Change"
	case ReasonRefresh:
		return "Refresh"
	case ReasonContext:
		return "Context"
	default:
		return "unknown"
	}
}

// Event is a change notification.
type Event struct {
	// Reason is why the notification was raised.
	Reason Reason

	// Path is the resolved path the change applies to.
	Path string

	// Value is the value after the change (may be nil).
	Value any

	// Source identifies the binding that raised the event.
	Source string
}

// Listener is called when a change event is delivered.
type Listener func(event Event)

// Subscription represents an active listener registration.
type Subscription struct {
	id         uint64
	dispatcher *Dispatcher
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.dispatcher != nil {
		s.dispatcher.unsubscribe(s.id)
	}
}

// envelope carries either an event or a flush marker through the queue.
type envelope struct {
	event   Event
	flushed chan struct{}
}

// Dispatcher delivers change events to registered listeners.
type Dispatcher struct {
	mu sync.RWMutex

	listeners map[uint64]Listener
	nextID    uint64

	buffer chan envelope
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	bufferSize int
}

// WithBuffer sets the event queue size.
func WithBuffer(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// NewDispatcher creates a Dispatcher and starts its delivery goroutine.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := config{bufferSize: 64}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		listeners: make(map[uint64]Listener),
		buffer:    make(chan envelope, cfg.bufferSize),
		done:      make(chan struct{}),
	}

	d.wg.Add(1)
	go d.deliverLoop()

	return d
}

// Subscribe registers a listener for all events.
func (d *Dispatcher) Subscribe(listener Listener) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.listeners[id] = listener

	return &Subscription{id: id, dispatcher: d}
}

// unsubscribe removes a listener by id.
func (d *Dispatcher) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, id)
}

// Dispatch queues an event for asynchronous delivery. Events queued
// after Close are dropped.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return
	}
	d.mu.RUnlock()

	select {
	case d.buffer <- envelope{event: event}:
	case <-d.done:
	}
}

// Flush blocks until every event queued before the call has been
// delivered. Intended for tests and orderly shutdown.
func (d *Dispatcher) Flush() {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return
	}
	d.mu.RUnlock()

	flushed := make(chan struct{})
	select {
	case d.buffer <- envelope{flushed: flushed}:
	case <-d.done:
		return
	}

	select {
	case <-flushed:
	case <-d.done:
	}
}

// Close stops delivery. Pending events are dropped. Close is
// idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()
}

// deliverLoop drains the queue and calls listeners.
func (d *Dispatcher) deliverLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case env := <-d.buffer:
			if env.flushed != nil {
				close(env.flushed)
				continue
			}
			d.deliver(env.event)
		}
	}
}

// deliver calls every registered listener with panic recovery, so one
// misbehaving listener cannot kill the delivery goroutine.
func (d *Dispatcher) deliver(event Event) {
	d.mu.RLock()
	listeners := make([]Listener, 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.RUnlock()

	for _, listener := range listeners {
		d.safeCall(listener, event)
	}
}

func (d *Dispatcher) safeCall(listener Listener, event Event) {
	defer func() {
		_ = recover()
	}()
	listener(event)
}
