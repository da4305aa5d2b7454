package token

import (
	"github.com/rom-protocol/rom-go/pkg/wire"
)

// AssetError reports a failed asset fetch.
type AssetError struct {
	Name   string
	Detail string
}

func (e *AssetError) Error() string {
	if e.Detail != "" {
		return "asset " + e.Name + " failed: " + e.Detail
	}
	return "asset " + e.Name + " failed"
}

// LoadAssetsToken correlates a FetchAsset command. It resolves with the
// *wire.AssetEvent once the device has the asset in memory.
type LoadAssetsToken struct {
	*Base
}

// NewLoadAssetsToken creates a pending asset-load token.
func NewLoadAssetsToken(sender CancelSender, cmd wire.FetchAssetCommand) *LoadAssetsToken {
	return &LoadAssetsToken{Base: NewBase(sender, cmd)}
}

// HandleAck rejects error-class acks; success leaves the token pending
// until the asset-ready event arrives.
func (t *LoadAssetsToken) HandleAck(ack *wire.Acknowledgement) {
	t.RejectOnAckError(ack)
}

// HandleEvent resolves on asset-ready and rejects on asset-failed.
func (t *LoadAssetsToken) HandleEvent(evt *wire.EventMessage) {
	switch evt.EventBody.Event {
	case wire.EventAssetReady:
		var body wire.AssetEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Resolve(&body)
	case wire.EventAssetFailed:
		var body wire.AssetEvent
		if err := evt.DecodeBody(&body); err != nil {
			t.Reject(err)
			return
		}
		t.Reject(&AssetError{Name: body.Name, Detail: body.Detail})
	default:
		t.HandleAsyncMarker(evt)
	}
}

// UnloadAssetsToken correlates an UnloadAsset command, a synchronous
// exchange that settles directly from the acknowledgement.
type UnloadAssetsToken struct {
	*Base
}

// NewUnloadAssetsToken creates a pending asset-unload token.
func NewUnloadAssetsToken(sender CancelSender, cmd wire.UnloadAssetCommand) *UnloadAssetsToken {
	return &UnloadAssetsToken{Base: NewBase(sender, cmd)}
}

// HandleAck settles directly: error codes reject, success resolves.
func (t *UnloadAssetsToken) HandleAck(ack *wire.Acknowledgement) {
	if t.RejectOnAckError(ack) {
		return
	}
	t.Resolve(&ack.Response)
}

// HandleEvent ignores events; asset unloads are synchronous.
func (t *UnloadAssetsToken) HandleEvent(*wire.EventMessage) {}
