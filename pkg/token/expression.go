package token

import (
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// SayToken correlates a Say command. The command is asynchronous: the
// ack only accepts it, and completion arrives as an onStop event.
type SayToken struct {
	*Base
}

// NewSayToken creates a pending say token.
func NewSayToken(sender CancelSender, cmd wire.SayCommand) *SayToken {
	return &SayToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending.
func (t *SayToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent settles on the universal async markers.
func (t *SayToken) HandleEvent(evt *wire.EventMessage) {
	t.HandleAsyncMarker(evt)
}

// LookAtResult is the terminal payload of a look-at command: where the
// device ended up looking, or which entity track was lost.
type LookAtResult struct {
	Achieved       bool
	AngleTarget    *wire.AngleVector
	PositionTarget *wire.Vector3
	EntityTarget   int64
}

// LookAtToken correlates a LookAt command. It resolves with a
// *LookAtResult when the target is achieved or the tracked entity is
// lost.
type LookAtToken struct {
	*Base
}

// NewLookAtToken creates a pending look-at token.
func NewLookAtToken(sender CancelSender, cmd wire.LookAtCommand) *LookAtToken {
	return &LookAtToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending.
func (t *LookAtToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent resolves on achieved/lost markers and falls back to the
// universal async markers.
func (t *LookAtToken) HandleEvent(evt *wire.EventMessage) {
	switch evt.EventBody.Event {
	case wire.EventLookAtAchieved:
		var body wire.LookAtAchievedEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&LookAtResult{
			Achieved:       true,
			AngleTarget:    body.AngleTarget,
			PositionTarget: body.PositionTarget,
		})
	case wire.EventTrackEntityLost:
		var body wire.TrackEntityLostEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&LookAtResult{
			AngleTarget:    body.AngleTarget,
			PositionTarget: body.PositionTarget,
			EntityTarget:   body.EntityTarget,
		})
	default:
		t.HandleAsyncMarker(evt)
	}
}

// DisplayToken correlates a Display command. View state transitions are
// surfaced on Updates; the token resolves when the view closes.
type DisplayToken struct {
	*Base

	// Updates emits every view state change before the terminal one.
	Updates *events.Event[wire.ViewStateChangeEvent]
}

// NewDisplayToken creates a pending display token.
func NewDisplayToken(sender CancelSender, cmd wire.DisplayCommand) *DisplayToken {
	return &DisplayToken{
		Base:    NewBase(sender, cmd),
		Updates: events.New[wire.ViewStateChangeEvent](),
	}
}

// HandleAck rejects error-class acks; success leaves the token pending.
func (t *DisplayToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent emits view state changes and resolves when the view is
// closed by the device.
func (t *DisplayToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventViewStateChange {
		var body wire.ViewStateChangeEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Updates.Emit(body)
		if body.State == "Closed" {
			t.Resolve(&body)
		}
		return
	}
	t.HandleAsyncMarker(evt)
}

// AttentionToken correlates a SetAttention command, a synchronous
// exchange that resolves directly from the acknowledgement.
type AttentionToken struct {
	*Base
}

// NewAttentionToken creates a pending attention token.
func NewAttentionToken(sender CancelSender, cmd wire.SetAttentionCommand) *AttentionToken {
	return &AttentionToken{Base: NewBase(sender, cmd)}
}

// HandleAck settles directly: error codes reject, success resolves.
func (t *AttentionToken) HandleAck(ack *wire.Acknowledgement) {
	if t.RejectOnAckError(ack) {
		return
	}
	t.Resolve(&ack.Response)
}

// HandleEvent ignores events; attention changes are synchronous.
func (t *AttentionToken) HandleEvent(*wire.EventMessage) {}

// VideoPlaybackToken correlates a VideoPlayback command, asynchronous
// like Say: accepted by the ack and completed by onStop.
type VideoPlaybackToken struct {
	*Base
}

// NewVideoPlaybackToken creates a pending video playback token.
func NewVideoPlaybackToken(sender CancelSender, cmd wire.VideoPlaybackCommand) *VideoPlaybackToken {
	return &VideoPlaybackToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending.
func (t *VideoPlaybackToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent settles on the universal async markers.
func (t *VideoPlaybackToken) HandleEvent(evt *wire.EventMessage) {
	t.HandleAsyncMarker(evt)
}
