package token

import (
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// PhotoToken correlates a TakePhoto command. It resolves with the
// *wire.TakePhotoEvent describing the captured photo.
type PhotoToken struct {
	*Base
}

// NewPhotoToken creates a pending photo token.
func NewPhotoToken(sender CancelSender, cmd wire.TakePhotoCommand) *PhotoToken {
	return &PhotoToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending
// until the photo-ready event arrives.
func (t *PhotoToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent resolves on the photo-ready marker.
func (t *PhotoToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventTakePhoto {
		var body wire.TakePhotoEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&body)
		return
	}
	t.HandleAsyncMarker(evt)
}

// VideoToken correlates a Video command. It resolves with the
// *wire.VideoReadyEvent carrying the stream URI.
type VideoToken struct {
	*Base
}

// NewVideoToken creates a pending video token.
func NewVideoToken(sender CancelSender, cmd wire.VideoCommand) *VideoToken {
	return &VideoToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending.
func (t *VideoToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent resolves on the video-ready marker.
func (t *VideoToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventVideoReady {
		var body wire.VideoReadyEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&body)
		return
	}
	t.HandleAsyncMarker(evt)
}
