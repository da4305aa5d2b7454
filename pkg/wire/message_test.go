package wire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestEncodeEnvelope(t *testing.T) {
	env := &Envelope{
		ClientHeader: ClientHeader{
			TransactionID: "tx-1",
			SessionID:     "sess-1",
			Version:       "2.0",
			AppID:         "test-app",
		},
		Command: SayCommand{Type: CmdSay, ESML: "hello"},
	}

	data, err := EncodeEnvelope(env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := decoded["ClientHeader"]; !ok {
		t.Error("missing ClientHeader key")
	}
	if _, ok := decoded["Command"]; !ok {
		t.Error("missing Command key")
	}

	payload := string(decoded["Command"])
	if !strings.Contains(payload, `"Type":"Say"`) {
		t.Errorf("command payload missing type discriminator: %s", payload)
	}
}

func TestClassifyAcknowledgement(t *testing.T) {
	frame := []byte(`{
		"ResponseHeader": {"TransactionID": "tx-9"},
		"Response": {"ResponseCode": 202, "ResponseString": "Accepted"}
	}`)

	in, err := Classify(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Ack == nil {
		t.Fatal("expected acknowledgement")
	}
	if in.Event != nil {
		t.Error("expected no event")
	}
	if got := in.TransactionID(); got != "tx-9" {
		t.Errorf("expected tx-9, got %s", got)
	}
	if in.Ack.Response.ResponseCode != ResponseAccepted {
		t.Errorf("expected 202, got %d", in.Ack.Response.ResponseCode)
	}
}

func TestClassifyEvent(t *testing.T) {
	frame := []byte(`{
		"EventHeader": {"TransactionID": "tx-3"},
		"EventBody": {"Event": "onTakePhoto", "URI": "photo://1", "Name": "p1"}
	}`)

	in, err := Classify(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Event == nil {
		t.Fatal("expected event")
	}
	if in.Event.EventBody.Event != EventTakePhoto {
		t.Errorf("expected onTakePhoto, got %s", in.Event.EventBody.Event)
	}

	var body TakePhotoEvent
	if err := in.Event.DecodeBody(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.URI != "photo://1" || body.Name != "p1" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestClassifyUnknownShape(t *testing.T) {
	for _, frame := range []string{
		`{}`,
		`{"Something": 1}`,
		`{"ClientHeader": {}, "Command": {}}`,
	} {
		if _, err := Classify([]byte(frame)); !errors.Is(err, ErrUnknownShape) {
			t.Errorf("frame %s: expected ErrUnknownShape, got %v", frame, err)
		}
	}
}

func TestClassifyMalformed(t *testing.T) {
	if _, err := Classify([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestResponseCodeClasses(t *testing.T) {
	for _, code := range []ResponseCode{ResponseOK, ResponseCreated, ResponseAccepted} {
		if code.IsError() {
			t.Errorf("%d should be success", code)
		}
	}
	for _, code := range []ResponseCode{
		ResponseBadRequest, ResponseForbidden, ResponseNotFound,
		ResponseNotAcceptable, ResponseRequestTimeout, ResponseConflict,
		ResponsePreconditionFailed, ResponseInternalError,
		ResponseServiceUnavailable, ResponseVersionNotSupported,
		ResponseVersionConflict,
	} {
		if !code.IsError() {
			t.Errorf("%d should be error", code)
		}
	}
}

func TestCommandTypeOf(t *testing.T) {
	if got := CommandTypeOf(SayCommand{Type: CmdSay}); got != CmdSay {
		t.Errorf("expected Say, got %s", got)
	}
	if got := CommandTypeOf(&CancelCommand{Type: CmdCancel}); got != CmdCancel {
		t.Errorf("expected Cancel, got %s", got)
	}
	if got := CommandTypeOf(42); got != "" {
		t.Errorf("expected empty, got %s", got)
	}
}

func TestDecodeSessionInfo(t *testing.T) {
	info, err := DecodeSessionInfo(json.RawMessage(`{"SessionID": "s-1", "Version": "2.1"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SessionID != "s-1" || info.Version != "2.1" {
		t.Errorf("unexpected session info: %+v", info)
	}
}

func TestLookAtTargetUnion(t *testing.T) {
	entity := int64(7)
	data, err := json.Marshal(LookAtCommand{
		Type:         CmdLookAt,
		LookAtTarget: LookAtTarget{Entity: &entity},
		TrackFlag:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := string(data)
	if !strings.Contains(payload, `"Entity":7`) {
		t.Errorf("missing entity target: %s", payload)
	}
	// Only the chosen variant key may be present.
	for _, absent := range []string{"Angle", "Position", "ScreenCoords"} {
		if strings.Contains(payload, absent) {
			t.Errorf("unexpected key %s in %s", absent, payload)
		}
	}
}
