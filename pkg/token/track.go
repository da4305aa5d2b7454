package token

import (
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// MotionTrackToken correlates a motion stream subscription. Detected
// motion regions are emitted on Updates.
type MotionTrackToken struct {
	*Base

	// Updates emits detected motion regions.
	Updates *events.Event[[]wire.MotionEntity]
}

// NewMotionTrackToken creates a pending motion-track token.
func NewMotionTrackToken(sender CancelSender, cmd wire.SubscribeCommand) *MotionTrackToken {
	return &MotionTrackToken{
		Base:    NewBase(sender, cmd),
		Updates: events.New[[]wire.MotionEntity](),
	}
}

// HandleAck rejects error-class acks; success leaves the stream open.
func (t *MotionTrackToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent emits motion updates; stream end settles the token.
func (t *MotionTrackToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventMotionDetected {
		var body wire.MotionDetectedEvent
		if err := evt.DecodeBody(&body); err != nil {
			return
		}
		t.Updates.Emit(body.Motions)
		return
	}
	t.HandleAsyncMarker(evt)
}

// FaceTrackUpdate is one face-track notification: which tracks changed
// and how.
type FaceTrackUpdate struct {
	Kind   wire.EventName
	Tracks []wire.TrackedEntity
}

// FaceTrackToken correlates an entity (face) stream subscription.
// Gained, updated, and lost tracks are emitted on Updates.
type FaceTrackToken struct {
	*Base

	// Updates emits track gained/update/lost notifications.
	Updates *events.Event[FaceTrackUpdate]
}

// NewFaceTrackToken creates a pending face-track token.
func NewFaceTrackToken(sender CancelSender, cmd wire.SubscribeCommand) *FaceTrackToken {
	return &FaceTrackToken{
		Base:    NewBase(sender, cmd),
		Updates: events.New[FaceTrackUpdate](),
	}
}

// HandleAck rejects error-class acks; success leaves the stream open.
func (t *FaceTrackToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent emits track updates; stream end settles the token.
func (t *FaceTrackToken) HandleEvent(evt *wire.EventMessage) {
	switch evt.EventBody.Event {
	case wire.EventEntityUpdate, wire.EventEntityLost, wire.EventEntityGained:
		var body wire.EntityTrackEvent
		if err := evt.DecodeBody(&body); err != nil {
			return
		}
		t.Updates.Emit(FaceTrackUpdate{Kind: evt.EventBody.Event, Tracks: body.Tracks})
	default:
		t.HandleAsyncMarker(evt)
	}
}
