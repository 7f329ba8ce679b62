// Package async provides one-shot asynchronous results.
//
// A Result carries the eventual outcome of a single asynchronous
// operation: either a value or an error, settled exactly once.
// Completion is observed through the Done channel, which makes results
// composable with select loops elsewhere in the codebase.
package async

import "sync"

// Result is a one-shot container for the outcome of an asynchronous
// operation. It is settled at most once by Complete or Fail; further
// settle calls are ignored. The zero value is not usable; create
// results with New, Completed, or Failed.
type Result[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   T
	err     error
}

// New creates an unsettled Result.
func New[T any]() *Result[T] {
	return &Result[T]{done: make(chan struct{})}
}

// Completed creates a Result already settled with value.
func Completed[T any](value T) *Result[T] {
	r := New[T]()
	r.Complete(value)
	return r
}

// Failed creates a Result already settled with err.
func Failed[T any](err error) *Result[T] {
	r := New[T]()
	r.Fail(err)
	return r
}

// Complete settles the result with value. It is a no-op if the result
// is already settled.
func (r *Result[T]) Complete(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return
	}
	r.value = value
	r.settled = true
	close(r.done)
}

// Fail settles the result with err. It is a no-op if the result is
// already settled.
func (r *Result[T]) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return
	}
	r.err = err
	r.settled = true
	close(r.done)
}

// Done returns a channel that is closed once the result settles.
func (r *Result[T]) Done() <-chan struct{} {
	return r.done
}

// Settled reports whether the result has settled.
func (r *Result[T]) Settled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settled
}

// Value returns the settled value. It is only meaningful after Done
// is closed; before that it returns the zero value.
func (r *Result[T]) Value() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Err returns the settled error, or nil. It is only meaningful after
// Done is closed.
func (r *Result[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until the result settles and returns its outcome.
func (r *Result[T]) Wait() (T, error) {
	<-r.done
	return r.Value(), r.Err()
}
