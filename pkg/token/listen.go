package token

import (
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// ListenToken correlates a Listen command: one speech capture that
// resolves with the *wire.ListenResultEvent.
type ListenToken struct {
	*Base
}

// NewListenToken creates a pending listen token.
func NewListenToken(sender CancelSender, cmd wire.ListenCommand) *ListenToken {
	return &ListenToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending.
func (t *ListenToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent resolves on the listen result.
func (t *ListenToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventListenResult {
		var body wire.ListenResultEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&body)
		return
	}
	t.HandleAsyncMarker(evt)
}

// HotWordToken correlates a hot-word stream subscription. Every
// detection is emitted on Heard; an optional follow-up listen result is
// emitted on Results. The token stays pending until the stream stops.
type HotWordToken struct {
	*Base

	// Heard emits every hot-word detection.
	Heard *events.Event[wire.HotWordHeardEvent]

	// Results emits follow-up listen results when the subscription asked
	// for them.
	Results *events.Event[wire.ListenResultEvent]
}

// NewHotWordToken creates a pending hot-word token.
func NewHotWordToken(sender CancelSender, cmd wire.SubscribeCommand) *HotWordToken {
	return &HotWordToken{
		Base:    NewBase(sender, cmd),
		Heard:   events.New[wire.HotWordHeardEvent](),
		Results: events.New[wire.ListenResultEvent](),
	}
}

// HandleAck rejects error-class acks; success leaves the stream open.
func (t *HotWordToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent emits detections and results; stream end settles the token.
func (t *HotWordToken) HandleEvent(evt *wire.EventMessage) {
	switch evt.EventBody.Event {
	case wire.EventHotWordHeard:
		var body wire.HotWordHeardEvent
		if err := evt.DecodeBody(&body); err != nil {
			return
		}
		t.Heard.Emit(body)
	case wire.EventListenResult:
		var body wire.ListenResultEvent
		if err := evt.DecodeBody(&body); err != nil {
			return
		}
		t.Results.Emit(body)
	default:
		t.HandleAsyncMarker(evt)
	}
}
