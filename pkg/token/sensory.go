package token

import (
	"github.com/rom-protocol/rom-go/pkg/events"
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// HeadTouchToken correlates a head-touch stream subscription. Touchpad
// state changes are emitted on Updates; the token stays pending until
// the stream stops.
type HeadTouchToken struct {
	*Base

	// Updates emits the touch state of the touchpad sensors.
	Updates *events.Event[[]bool]
}

// NewHeadTouchToken creates a pending head-touch token.
func NewHeadTouchToken(sender CancelSender, cmd wire.SubscribeCommand) *HeadTouchToken {
	return &HeadTouchToken{
		Base:    NewBase(sender, cmd),
		Updates: events.New[[]bool](),
	}
}

// HandleAck rejects error-class acks; success leaves the stream open.
func (t *HeadTouchToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent emits touch updates; stream end settles the token.
func (t *HeadTouchToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventHeadTouched {
		var body wire.HeadTouchEvent
		if err := evt.DecodeBody(&body); err != nil {
			return
		}
		t.Updates.Emit(body.Pads)
		return
	}
	t.HandleAsyncMarker(evt)
}

// ScreenGestureToken correlates a screen-gesture stream subscription.
// Taps and swipes are emitted on Updates.
type ScreenGestureToken struct {
	*Base

	// Updates emits every tap or swipe gesture.
	Updates *events.Event[wire.ScreenGestureEvent]
}

// NewScreenGestureToken creates a pending screen-gesture token.
func NewScreenGestureToken(sender CancelSender, cmd wire.SubscribeCommand) *ScreenGestureToken {
	return &ScreenGestureToken{
		Base:    NewBase(sender, cmd),
		Updates: events.New[wire.ScreenGestureEvent](),
	}
}

// HandleAck rejects error-class acks; success leaves the stream open.
func (t *ScreenGestureToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent emits gestures; stream end settles the token.
func (t *ScreenGestureToken) HandleEvent(evt *wire.EventMessage) {
	switch evt.EventBody.Event {
	case wire.EventTap, wire.EventSwipe:
		var body wire.ScreenGestureEvent
		if err := evt.DecodeBody(&body); err != nil {
			return
		}
		t.Updates.Emit(body)
	default:
		t.HandleAsyncMarker(evt)
	}
}
