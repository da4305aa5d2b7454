package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message classification errors.
var (
	ErrUnknownShape = errors.New("message matches neither acknowledgement nor event shape")
)

// ClientHeader is the envelope header attached to every outbound command.
type ClientHeader struct {
	TransactionID string `json:"TransactionID"`
	SessionID     string `json:"SessionID"`
	Version       string `json:"Version"`
	Credentials   any    `json:"Credentials"`
	AppID         string `json:"AppID"`
}

// Envelope is the outbound command envelope.
//
// JSON encoding:
//
//	{
//	  "ClientHeader": {"TransactionID": ..., "SessionID": ..., ...},
//	  "Command":      {"Type": ..., ...capability fields}
//	}
type Envelope struct {
	ClientHeader ClientHeader `json:"ClientHeader"`
	Command      any          `json:"Command"`
}

// EncodeEnvelope encodes an outbound command envelope to JSON.
func EncodeEnvelope(env *Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode command envelope: %w", err)
	}
	return data, nil
}

// ResponseHeader carries the transaction id of an acknowledgement.
type ResponseHeader struct {
	TransactionID string `json:"TransactionID"`
	SessionID     string `json:"SessionID,omitempty"`
}

// Response is the body of an acknowledgement.
// ResponseBody is capability-specific and left raw for the owning token
// to decode into its typed form.
type Response struct {
	ResponseCode   ResponseCode    `json:"ResponseCode"`
	ResponseString string          `json:"ResponseString,omitempty"`
	ResponseBody   json.RawMessage `json:"ResponseBody,omitempty"`
}

// Acknowledgement is the synchronous reply to a command.
type Acknowledgement struct {
	ResponseHeader ResponseHeader `json:"ResponseHeader"`
	Response       Response       `json:"Response"`
}

// EventHeader carries the transaction id of an event.
type EventHeader struct {
	TransactionID string `json:"TransactionID"`
	SessionID     string `json:"SessionID,omitempty"`
}

// EventBody is the capability-specific payload of an event. The Event
// discriminator is decoded eagerly; the full body is retained raw so the
// owning token can decode the variant it recognizes.
type EventBody struct {
	Event EventName
	Raw   json.RawMessage
}

// UnmarshalJSON decodes the discriminator and retains the raw body.
func (b *EventBody) UnmarshalJSON(data []byte) error {
	var probe struct {
		Event EventName `json:"Event"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	b.Event = probe.Event
	b.Raw = append(b.Raw[:0], data...)
	return nil
}

// MarshalJSON re-emits the retained raw body, or a minimal body when the
// value was constructed in-process.
func (b EventBody) MarshalJSON() ([]byte, error) {
	if len(b.Raw) > 0 {
		return b.Raw, nil
	}
	return json.Marshal(struct {
		Event EventName `json:"Event"`
	}{Event: b.Event})
}

// EventMessage is an asynchronous, possibly repeated message tied to a
// transaction id.
type EventMessage struct {
	EventHeader EventHeader `json:"EventHeader"`
	EventBody   EventBody   `json:"EventBody"`
}

// DecodeBody decodes the raw event body into a typed variant.
func (e *EventMessage) DecodeBody(v any) error {
	if len(e.EventBody.Raw) == 0 {
		return fmt.Errorf("event %q has no body", e.EventBody.Event)
	}
	return json.Unmarshal(e.EventBody.Raw, v)
}

// Inbound is the classified form of one inbound frame. Exactly one of
// Ack and Event is non-nil.
type Inbound struct {
	Ack   *Acknowledgement
	Event *EventMessage
}

// TransactionID returns the transaction id the frame correlates to.
func (in *Inbound) TransactionID() string {
	if in.Ack != nil {
		return in.Ack.ResponseHeader.TransactionID
	}
	if in.Event != nil {
		return in.Event.EventHeader.TransactionID
	}
	return ""
}

// Classify parses one inbound frame and decides whether it is an
// acknowledgement or an event. Frames matching neither shape return
// ErrUnknownShape; the caller is expected to drop them.
func Classify(data []byte) (*Inbound, error) {
	var probe struct {
		ResponseHeader *ResponseHeader  `json:"ResponseHeader"`
		Response       *json.RawMessage `json:"Response"`
		EventHeader    *EventHeader     `json:"EventHeader"`
		EventBody      *json.RawMessage `json:"EventBody"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse inbound frame: %w", err)
	}

	switch {
	case probe.Response != nil:
		var ack Acknowledgement
		if err := json.Unmarshal(data, &ack); err != nil {
			return nil, fmt.Errorf("failed to decode acknowledgement: %w", err)
		}
		return &Inbound{Ack: &ack}, nil

	case probe.EventBody != nil:
		var evt EventMessage
		if err := json.Unmarshal(data, &evt); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		return &Inbound{Event: &evt}, nil

	default:
		return nil, ErrUnknownShape
	}
}
