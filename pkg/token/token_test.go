package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rom-protocol/rom-go/pkg/wire"
)

// recordingSender records cancel commands sent by tokens.
type recordingSender struct {
	mu      sync.Mutex
	cancels []string
}

func (s *recordingSender) SendCancel(transactionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, transactionID)
}

func (s *recordingSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cancels...)
}

func ack(code wire.ResponseCode) *wire.Acknowledgement {
	return &wire.Acknowledgement{
		ResponseHeader: wire.ResponseHeader{TransactionID: "tx-1"},
		Response:       wire.Response{ResponseCode: code},
	}
}

func ackWithBody(code wire.ResponseCode, body string) *wire.Acknowledgement {
	a := ack(code)
	a.Response.ResponseBody = json.RawMessage(body)
	return a
}

// event builds an EventMessage through the real decode path so the raw
// body is retained.
func event(t *testing.T, body string) *wire.EventMessage {
	t.Helper()
	frame := fmt.Sprintf(`{"EventHeader":{"TransactionID":"tx-1"},"EventBody":%s}`, body)
	in, err := wire.Classify([]byte(frame))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return in.Event
}

func TestSayTokenAcceptedThenStop(t *testing.T) {
	tok := NewSayToken(&recordingSender{}, wire.SayCommand{Type: wire.CmdSay, ESML: "hi"})

	tok.HandleAck(ack(wire.ResponseAccepted))
	if tok.Done() {
		t.Fatal("202 ack must leave the token pending")
	}

	tok.HandleEvent(event(t, `{"Event":"onStart"}`))
	if tok.Done() {
		t.Fatal("onStart is informational")
	}

	tok.HandleEvent(event(t, `{"Event":"onStop"}`))
	if tok.State() != StateResolved {
		t.Fatalf("expected resolved, got %s", tok.State())
	}

	// A late duplicate terminal event is harmless.
	tok.HandleEvent(event(t, `{"Event":"onStop"}`))
	tok.HandleEvent(event(t, `{"Event":"onError","EventError":{"ErrorCode":500,"ErrorString":"late"}}`))
	if tok.State() != StateResolved {
		t.Fatalf("late signals must not change state, got %s", tok.State())
	}
}

func TestSayTokenErrorAckShortCircuits(t *testing.T) {
	tok := NewSayToken(&recordingSender{}, wire.SayCommand{Type: wire.CmdSay, ESML: "hi"})

	tok.HandleAck(ack(wire.ResponseNotAcceptable))
	if tok.State() != StateRejected {
		t.Fatalf("expected rejected, got %s", tok.State())
	}

	_, err := tok.Completion().Result()
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.Response.ResponseCode != wire.ResponseNotAcceptable {
		t.Errorf("expected 406, got %d", cmdErr.Response.ResponseCode)
	}

	// The terminal event for the same transaction arriving late is ignored.
	tok.HandleEvent(event(t, `{"Event":"onStop"}`))
	if tok.State() != StateRejected {
		t.Fatalf("expected rejected to stick, got %s", tok.State())
	}
}

func TestTokenErrorEventRejects(t *testing.T) {
	tok := NewSayToken(&recordingSender{}, wire.SayCommand{Type: wire.CmdSay, ESML: "hi"})

	tok.HandleAck(ack(wire.ResponseAccepted))
	tok.HandleEvent(event(t, `{"Event":"onError","EventError":{"ErrorCode":503,"ErrorString":"busy"}}`))

	_, err := tok.Completion().Result()
	var evtErr *EventError
	if !errors.As(err, &evtErr) {
		t.Fatalf("expected EventError, got %v", err)
	}
	if evtErr.Data.ErrorCode != 503 || evtErr.Data.ErrorString != "busy" {
		t.Errorf("unexpected error data: %+v", evtErr.Data)
	}
}

func TestTokenCancel(t *testing.T) {
	sender := &recordingSender{}
	tok := NewSayToken(sender, wire.SayCommand{Type: wire.CmdSay, ESML: "hi"})
	tok.Bind("tx-42")

	tok.Cancel()

	if tok.State() != StateCancelled {
		t.Fatalf("expected cancelled, got %s", tok.State())
	}
	_, err := tok.Completion().Result()
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}

	// Exactly one cancel command, referencing this transaction.
	if got := sender.sent(); len(got) != 1 || got[0] != "tx-42" {
		t.Errorf("expected one cancel for tx-42, got %v", got)
	}

	// Cancel is idempotent and terminal states swallow it.
	tok.Cancel()
	if got := sender.sent(); len(got) != 1 {
		t.Errorf("expected still one cancel, got %v", got)
	}
}

func TestCancelAfterTerminalIsNoOp(t *testing.T) {
	sender := &recordingSender{}
	tok := NewSayToken(sender, wire.SayCommand{Type: wire.CmdSay, ESML: "hi"})
	tok.Bind("tx-1")

	tok.HandleEvent(event(t, `{"Event":"onStop"}`))
	tok.Cancel()

	if tok.State() != StateResolved {
		t.Fatalf("expected resolved, got %s", tok.State())
	}
	if got := sender.sent(); len(got) != 0 {
		t.Errorf("expected no cancel commands, got %v", got)
	}
}

func TestSessionToken(t *testing.T) {
	tok := NewSessionToken(&recordingSender{})

	tok.HandleAck(ackWithBody(wire.ResponseOK, `{"SessionID":"s-7","Version":"2.1"}`))

	result, err := tok.Completion().Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, ok := result.(*wire.SessionInfo)
	if !ok {
		t.Fatalf("expected *wire.SessionInfo, got %T", result)
	}
	if info.SessionID != "s-7" || info.Version != "2.1" {
		t.Errorf("unexpected session info: %+v", info)
	}
}

func TestSessionTokenRejectsErrorAck(t *testing.T) {
	tok := NewSessionToken(&recordingSender{})

	tok.HandleAck(ack(wire.ResponseVersionNotSupported))
	if tok.State() != StateRejected {
		t.Fatalf("expected rejected, got %s", tok.State())
	}
}

func TestPhotoTokenResolvesWithPayload(t *testing.T) {
	tok := NewPhotoToken(&recordingSender{}, wire.TakePhotoCommand{Type: wire.CmdTakePhoto})

	tok.HandleAck(ack(wire.ResponseAccepted))
	tok.HandleEvent(event(t, `{"Event":"onTakePhoto","URI":"photo://9","Name":"snap"}`))

	result, err := tok.Completion().Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	photo := result.(*wire.TakePhotoEvent)
	if photo.URI != "photo://9" || photo.Name != "snap" {
		t.Errorf("unexpected photo: %+v", photo)
	}
}

func TestGetConfigTokenResolvesOnConfigEvent(t *testing.T) {
	tok := NewGetConfigToken(&recordingSender{})

	tok.HandleAck(ack(wire.ResponseAccepted))
	tok.HandleEvent(event(t, `{"Event":"onConfig","Info":{"Mixer":0.5,"Battery":{"Capacity":80,"MaxCapacity":100}}}`))

	result, err := tok.Completion().Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := result.(*wire.ConfigInfo)
	if info.Mixer != 0.5 {
		t.Errorf("expected mixer 0.5, got %f", info.Mixer)
	}
	if info.Battery.Capacity != 80 {
		t.Errorf("expected capacity 80, got %f", info.Battery.Capacity)
	}
}

func TestSetConfigTokenResolvesSynchronously(t *testing.T) {
	tok := NewSetConfigToken(&recordingSender{}, wire.SetConfigCommand{Type: wire.CmdSetConfig})

	tok.HandleAck(ack(wire.ResponseOK))
	if tok.State() != StateResolved {
		t.Fatalf("expected resolved, got %s", tok.State())
	}
}

func TestHeadTouchTokenStreams(t *testing.T) {
	tok := NewHeadTouchToken(&recordingSender{}, wire.SubscribeCommand{Type: wire.CmdSubscribe})

	var updates [][]bool
	tok.Updates.On(func(pads []bool) { updates = append(updates, pads) })

	tok.HandleAck(ack(wire.ResponseAccepted))
	tok.HandleEvent(event(t, `{"Event":"onHeadTouch","Pads":[true,false,false,false,false,false]}`))
	tok.HandleEvent(event(t, `{"Event":"onHeadTouch","Pads":[false,false,false,false,false,true]}`))

	if tok.Done() {
		t.Fatal("stream updates must not settle the token")
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if !updates[0][0] || !updates[1][5] {
		t.Errorf("unexpected updates: %v", updates)
	}

	tok.HandleEvent(event(t, `{"Event":"onStop"}`))
	if tok.State() != StateResolved {
		t.Fatalf("expected resolved after stream end, got %s", tok.State())
	}
}

func TestLoadAssetsTokenFailure(t *testing.T) {
	tok := NewLoadAssetsToken(&recordingSender{}, wire.FetchAssetCommand{Type: wire.CmdFetchAsset, Name: "song"})

	tok.HandleAck(ack(wire.ResponseAccepted))
	tok.HandleEvent(event(t, `{"Event":"onAssetFailed","Name":"song","Detail":"unreachable"}`))

	_, err := tok.Completion().Result()
	var assetErr *AssetError
	if !errors.As(err, &assetErr) {
		t.Fatalf("expected AssetError, got %v", err)
	}
	if assetErr.Name != "song" || assetErr.Detail != "unreachable" {
		t.Errorf("unexpected error: %+v", assetErr)
	}
}
