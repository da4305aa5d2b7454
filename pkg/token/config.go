package token

import (
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// GetConfigToken correlates a GetConfig command. It resolves with the
// *wire.ConfigInfo reported by the device.
type GetConfigToken struct {
	*Base
}

// NewGetConfigToken creates a pending get-config token.
func NewGetConfigToken(sender CancelSender) *GetConfigToken {
	return &GetConfigToken{
		Base: NewBase(sender, wire.GetConfigCommand{Type: wire.CmdGetConfig}),
	}
}

// HandleAck rejects error-class acks; the config arrives as an event.
func (t *GetConfigToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent resolves on the config report.
func (t *GetConfigToken) HandleEvent(evt *wire.EventMessage) {
	if evt.EventBody.Event == wire.EventConfig {
		var body wire.ConfigEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&body.Info)
		return
	}
	t.HandleAsyncMarker(evt)
}

// SetConfigToken correlates a SetConfig command, a synchronous exchange
// that resolves directly from the acknowledgement.
type SetConfigToken struct {
	*Base
}

// NewSetConfigToken creates a pending set-config token.
func NewSetConfigToken(sender CancelSender, cmd wire.SetConfigCommand) *SetConfigToken {
	return &SetConfigToken{Base: NewBase(sender, cmd)}
}

// HandleAck settles directly: error codes reject, success resolves.
func (t *SetConfigToken) HandleAck(ack *wire.Acknowledgement) {
	if t.RejectOnAckError(ack) {
		return
	}
	t.Resolve(&ack.Response)
}

// HandleEvent ignores events; config writes are synchronous.
func (t *SetConfigToken) HandleEvent(*wire.EventMessage) {}
