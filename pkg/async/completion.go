// Package async provides the single-resolution completion primitive used
// as the settlement contract for every outstanding command, plus
// transaction id generation.
package async

import (
	"context"
	"errors"
	"sync"
)

// ErrNotSettled is returned by Result before the completion settles.
var ErrNotSettled = errors.New("completion not settled")

// Completion is a future that settles exactly once, from outside.
// Resolve and Reject are idempotent; the first call wins and every later
// call is a no-op. All methods are safe for concurrent use.
type Completion struct {
	mu     sync.Mutex
	done   chan struct{}
	value  any
	err    error
	closed bool
}

// NewCompletion creates an unsettled completion.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Resolve settles the completion successfully with value.
// Returns true if this call performed the transition.
func (c *Completion) Resolve(value any) bool {
	return c.settle(value, nil)
}

// Reject settles the completion with err.
// Returns true if this call performed the transition.
func (c *Completion) Reject(err error) bool {
	return c.settle(nil, err)
}

func (c *Completion) settle(value any, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true
	c.value = value
	c.err = err
	close(c.done)
	return true
}

// Done returns a channel that is closed when the completion settles.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Settled reports whether the completion has reached a terminal state.
func (c *Completion) Settled() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Result returns the settled value and error. Before settlement it
// returns ErrNotSettled.
func (c *Completion) Result() (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		return nil, ErrNotSettled
	}
	return c.value, c.err
}

// Await blocks until the completion settles or ctx is done.
func (c *Completion) Await(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return c.Result()
	}
}
