package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// DeviceID is the device identifier (hostname or serial).
	DeviceID string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"7,keyasint,omitempty"`  // Transport layer
	Message     *MessageEvent     `cbor:"8,keyasint,omitempty"`  // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // Connection/session state
	Status      *StatusEvent      `cbor:"10,keyasint,omitempty"` // Human-readable status
	Error       *ErrorEventData   `cbor:"11,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the WebSocket layer (raw frames).
	LayerTransport Layer = 0
	// LayerWire is the message decoding layer (classified JSON).
	LayerWire Layer = 1
	// LayerService is the dispatcher/provisioning layer.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (command/ack/event).
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryStatus indicates a human-readable status notification.
	CategoryStatus Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryStatus:
		return "STATUS"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageKind distinguishes decoded protocol messages.
type MessageKind uint8

const (
	// MessageCommand is an outbound command envelope.
	MessageCommand MessageKind = 0
	// MessageAck is an inbound acknowledgement.
	MessageAck MessageKind = 1
	// MessageEventMsg is an inbound asynchronous event.
	MessageEventMsg MessageKind = 2
)

// String returns the message kind name.
func (k MessageKind) String() string {
	switch k {
	case MessageCommand:
		return "COMMAND"
	case MessageAck:
		return "ACK"
	case MessageEventMsg:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent describes a raw WebSocket frame.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`
}

// MessageEvent describes a decoded protocol message.
type MessageEvent struct {
	// Kind is the message kind (command/ack/event).
	Kind MessageKind `cbor:"1,keyasint"`

	// TransactionID correlates the message to its command.
	TransactionID string `cbor:"2,keyasint,omitempty"`

	// CommandType is set for outbound commands.
	CommandType string `cbor:"3,keyasint,omitempty"`

	// ResponseCode is set for acknowledgements.
	ResponseCode *int `cbor:"4,keyasint,omitempty"`

	// EventName is set for events.
	EventName string `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent describes a connection or session state transition.
type StateChangeEvent struct {
	// Entity names what changed state (connection, session, token).
	Entity string `cbor:"1,keyasint"`

	// OldState and NewState are the transition endpoints.
	OldState string `cbor:"2,keyasint"`
	NewState string `cbor:"3,keyasint"`

	// Reason is an optional transition cause.
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StatusEvent is a human-readable status notification, mirroring the
// statusMessage surface exposed to applications.
type StatusEvent struct {
	// Message is the status text.
	Message string `cbor:"1,keyasint"`

	// Subsystem names the emitting component.
	Subsystem string `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData describes an error captured at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Context describes what was being attempted.
	Context string `cbor:"3,keyasint,omitempty"`
}
