// Package token implements correlation tokens: the per-command objects
// that match an outgoing command to its acknowledgement and streamed
// events, exposing a single asynchronous completion plus capability
// specific side-channel notifications.
package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rom-protocol/rom-go/pkg/async"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// Token errors.
var (
	// ErrCancelled is the rejection payload of a locally cancelled token.
	ErrCancelled = errors.New("request cancelled")
)

// State is the lifecycle state of a correlation token.
type State int

const (
	// StatePending indicates the token awaits a terminal signal.
	StatePending State = iota

	// StateResolved indicates the command completed successfully.
	StateResolved

	// StateRejected indicates the command failed.
	StateRejected

	// StateCancelled indicates the caller cancelled locally.
	// Cancelled is a terminal variant of Rejected.
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateResolved:
		return "RESOLVED"
	case StateRejected:
		return "REJECTED"
	case StateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// CancelSender sends a best-effort cancel command referencing a
// transaction id. The cancel command's own acknowledgement is not
// correlated to anything.
type CancelSender interface {
	SendCancel(transactionID string)
}

// Token is the contract every correlation token implements. The
// dispatcher routes inbound messages through HandleAck/HandleEvent and
// drops the token from its registry once Done reports true.
type Token interface {
	// TransactionID returns the id this token is registered under.
	TransactionID() string

	// Bind assigns the transaction id after the command is sent.
	Bind(transactionID string)

	// Command returns the outbound command payload.
	Command() any

	// HandleAck interprets the synchronous acknowledgement.
	HandleAck(ack *wire.Acknowledgement)

	// HandleEvent interprets an asynchronous event.
	HandleEvent(evt *wire.EventMessage)

	// Cancel settles the token Rejected immediately and sends a
	// best-effort cancel command to the remote side.
	Cancel()

	// Reject settles the token Rejected without remote interaction,
	// used by the dispatcher when the connection drops.
	Reject(err error)

	// Done reports whether the token reached a terminal state.
	Done() bool

	// Completion returns the token's settlement primitive.
	Completion() *async.Completion
}

// CommandError is the rejection payload of an acknowledgement carrying an
// error-class response code.
type CommandError struct {
	Response wire.Response
}

// Error returns a description of the failed acknowledgement.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command rejected: %d %s", e.Response.ResponseCode, e.Response.ResponseCode)
}

// EventError is the rejection payload of an onError event.
type EventError struct {
	Data wire.ErrorData
}

// Error returns a description of the failed event.
func (e *EventError) Error() string {
	return fmt.Sprintf("command failed: %d %s", e.Data.ErrorCode, e.Data.ErrorString)
}

// Base carries the shared state machine of every capability token.
// Capability variants embed *Base and implement ack/event interpretation.
type Base struct {
	mu      sync.Mutex
	state   State
	txID    string
	command any
	sender  CancelSender
	comp    *async.Completion
}

// NewBase creates a pending token base for the given command payload.
func NewBase(sender CancelSender, command any) *Base {
	return &Base{
		state:   StatePending,
		command: command,
		sender:  sender,
		comp:    async.NewCompletion(),
	}
}

// TransactionID returns the bound transaction id, or "" before send.
func (b *Base) TransactionID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txID
}

// Bind assigns the transaction id after the command is sent.
func (b *Base) Bind(transactionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txID = transactionID
}

// Command returns the outbound command payload.
func (b *Base) Command() any {
	return b.command
}

// State returns the current lifecycle state.
func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Done reports whether the token reached a terminal state.
func (b *Base) Done() bool {
	return b.State() != StatePending
}

// Completion returns the token's settlement primitive.
func (b *Base) Completion() *async.Completion {
	return b.comp
}

// Resolve transitions Pending→Resolved. Later signals are ignored.
func (b *Base) Resolve(value any) {
	b.mu.Lock()
	if b.state != StatePending {
		b.mu.Unlock()
		return
	}
	b.state = StateResolved
	b.mu.Unlock()

	b.comp.Resolve(value)
}

// Reject transitions Pending→Rejected. Later signals are ignored.
func (b *Base) Reject(err error) {
	b.mu.Lock()
	if b.state != StatePending {
		b.mu.Unlock()
		return
	}
	b.state = StateRejected
	b.mu.Unlock()

	b.comp.Reject(err)
}

// Cancel settles the token Rejected immediately (local-only) and sends a
// best-effort cancel command referencing this token's transaction id.
// The remote side's actual cancellation is not awaited; a command
// response racing the cancel is dropped by the terminal-state check.
func (b *Base) Cancel() {
	b.mu.Lock()
	if b.state != StatePending {
		b.mu.Unlock()
		return
	}
	b.state = StateCancelled
	txID := b.txID
	b.mu.Unlock()

	b.comp.Reject(ErrCancelled)

	if b.sender != nil && txID != "" {
		b.sender.SendCancel(txID)
	}
}

// RejectOnAckError settles the token Rejected when the acknowledgement
// carries an error-class response code. Returns true when the ack was
// terminal for this token.
func (b *Base) RejectOnAckError(ack *wire.Acknowledgement) bool {
	if ack.Response.ResponseCode.IsError() {
		b.Reject(&CommandError{Response: ack.Response})
		return true
	}
	return false
}

// HandleAsyncMarker interprets the universal asynchronous markers shared
// by every streaming command: onStart is informational, onStop resolves,
// onError rejects. Returns true when the event was one of the markers.
func (b *Base) HandleAsyncMarker(evt *wire.EventMessage) bool {
	switch evt.EventBody.Event {
	case wire.EventStart:
		// Informational; the command is now running.
		return true
	case wire.EventStop:
		b.Resolve(nil)
		return true
	case wire.EventError:
		var body wire.AsyncErrorEvent
		if err := evt.DecodeBody(&body); err != nil {
			b.Reject(&EventError{})
			return true
		}
		b.Reject(&EventError{Data: body.EventError})
		return true
	default:
		return false
	}
}
