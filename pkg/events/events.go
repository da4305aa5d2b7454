// Package events provides typed observer lists for lifecycle and status
// notification fan-out.
package events

import "sync"

// Handle identifies one registered observer so it can be removed.
type Handle uint64

// Event is an observer list carrying values of type T.
//
// Dispatch snapshots the observer list before iterating, so a handler
// that unsubscribes (itself or another handler) during dispatch does not
// skip or double-notify the remaining handlers. Every handler registered
// at emit time receives the value at least once.
type Event[T any] struct {
	mu       sync.Mutex
	nextID   Handle
	handlers map[Handle]func(T)
	order    []Handle
}

// New creates an empty observer list.
func New[T any]() *Event[T] {
	return &Event[T]{handlers: make(map[Handle]func(T))}
}

// On registers fn and returns a handle for Off.
func (e *Event[T]) On(fn func(T)) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers[id] = fn
	e.order = append(e.order, id)
	return id
}

// Off removes a previously registered handler. Unknown handles are a no-op.
func (e *Event[T]) Off(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.handlers[h]; !ok {
		return
	}
	delete(e.handlers, h)
	for i, id := range e.order {
		if id == h {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Once registers fn to run for the next emit only.
func (e *Event[T]) Once(fn func(T)) Handle {
	var h Handle
	e.mu.Lock()
	e.nextID++
	h = e.nextID
	e.handlers[h] = func(v T) {
		e.Off(h)
		fn(v)
	}
	e.order = append(e.order, h)
	e.mu.Unlock()
	return h
}

// Emit delivers v to every handler registered at the time of the call,
// in registration order.
func (e *Event[T]) Emit(v T) {
	e.mu.Lock()
	snapshot := make([]func(T), 0, len(e.order))
	for _, id := range e.order {
		if fn, ok := e.handlers[id]; ok {
			snapshot = append(snapshot, fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range snapshot {
		fn(v)
	}
}

// Len returns the number of registered handlers.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}
