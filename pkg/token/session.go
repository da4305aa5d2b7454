package token

import (
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// SessionToken correlates the StartSession exchange performed once per
// connection. It resolves with the negotiated *wire.SessionInfo.
type SessionToken struct {
	*Base
}

// NewSessionToken creates a pending session token.
func NewSessionToken(sender CancelSender) *SessionToken {
	return &SessionToken{
		Base: NewBase(sender, wire.StartSessionCommand{Type: wire.CmdStartSession}),
	}
}

// HandleAck resolves on a success ack carrying session id and version.
func (t *SessionToken) HandleAck(ack *wire.Acknowledgement) {
	if t.RejectOnAckError(ack) {
		return
	}
	if ack.Response.ResponseCode == wire.ResponseOK {
		info, err := wire.DecodeSessionInfo(ack.Response.ResponseBody)
		if err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(info)
	}
}

// HandleEvent ignores events; session start is a synchronous exchange.
func (t *SessionToken) HandleEvent(*wire.EventMessage) {}
