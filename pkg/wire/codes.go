package wire

// ResponseCode represents an acknowledgement response code.
type ResponseCode int

const (
	// ResponseOK indicates a synchronous command completed successfully.
	ResponseOK ResponseCode = 200

	// ResponseCreated indicates a resource was created.
	ResponseCreated ResponseCode = 201

	// ResponseAccepted indicates an asynchronous command was accepted;
	// completion is signalled by a later event.
	ResponseAccepted ResponseCode = 202

	// ResponseBadRequest indicates a malformed command.
	ResponseBadRequest ResponseCode = 400

	// ResponseForbidden indicates the command is not allowed.
	ResponseForbidden ResponseCode = 403

	// ResponseNotFound indicates the addressed resource doesn't exist.
	ResponseNotFound ResponseCode = 404

	// ResponseNotAcceptable indicates the command was rejected by the device.
	ResponseNotAcceptable ResponseCode = 406

	// ResponseRequestTimeout indicates the device timed out the command.
	ResponseRequestTimeout ResponseCode = 407

	// ResponseConflict indicates the command conflicts with device state.
	ResponseConflict ResponseCode = 409

	// ResponsePreconditionFailed indicates a required precondition was not met.
	ResponsePreconditionFailed ResponseCode = 412

	// ResponseInternalError indicates an error inside the device.
	ResponseInternalError ResponseCode = 500

	// ResponseServiceUnavailable indicates the capability is unavailable.
	ResponseServiceUnavailable ResponseCode = 503

	// ResponseVersionNotSupported indicates the protocol version is unsupported.
	ResponseVersionNotSupported ResponseCode = 505

	// ResponseVersionConflict indicates a protocol version conflict.
	ResponseVersionConflict ResponseCode = 506
)

// String returns the response code name.
func (c ResponseCode) String() string {
	switch c {
	case ResponseOK:
		return "OK"
	case ResponseCreated:
		return "Created"
	case ResponseAccepted:
		return "Accepted"
	case ResponseBadRequest:
		return "Bad Request"
	case ResponseForbidden:
		return "Forbidden"
	case ResponseNotFound:
		return "Not Found"
	case ResponseNotAcceptable:
		return "Not Acceptable"
	case ResponseRequestTimeout:
		return "Request Timeout"
	case ResponseConflict:
		return "Conflict"
	case ResponsePreconditionFailed:
		return "Precondition Failed"
	case ResponseInternalError:
		return "Internal Error"
	case ResponseServiceUnavailable:
		return "Service Unavailable"
	case ResponseVersionNotSupported:
		return "Version Not Supported"
	case ResponseVersionConflict:
		return "Version Conflict"
	default:
		return "Unknown"
	}
}

// IsSuccess returns true if the code indicates success.
func (c ResponseCode) IsSuccess() bool {
	return c < 400
}

// IsError returns true if the code indicates failure.
func (c ResponseCode) IsError() bool {
	return c >= 400
}

// DisconnectCode is a WebSocket close code sent by the device.
type DisconnectCode int

const (
	// DisconnectHeadTouchExit indicates the remote session was exited via
	// head touch on the device.
	DisconnectHeadTouchExit DisconnectCode = 4000

	// DisconnectDeviceError indicates the session was exited due to an
	// error display taking over the device.
	DisconnectDeviceError DisconnectCode = 4001

	// DisconnectNewConnection indicates a new connection is superseding
	// this one.
	DisconnectNewConnection DisconnectCode = 4002

	// DisconnectInactivityTimeout indicates the connection was closed
	// because no commands were sent.
	DisconnectInactivityTimeout DisconnectCode = 4003

	// DisconnectReconnectTimeout indicates the session timed out waiting
	// for a reconnect.
	DisconnectReconnectTimeout DisconnectCode = 4004

	// DisconnectReconnectError indicates the session was unable to wait
	// for a reconnect.
	DisconnectReconnectError DisconnectCode = 4005
)

// Reason returns the human-readable disconnect reason.
func (c DisconnectCode) Reason() string {
	switch c {
	case DisconnectHeadTouchExit:
		return "Session closed by user"
	case DisconnectDeviceError:
		return "Session closed due to device error"
	case DisconnectNewConnection:
		return "Incoming connection is replacing previous connection"
	case DisconnectInactivityTimeout:
		return "Connection closed due to inactivity"
	case DisconnectReconnectTimeout:
		return "Session closed due to reconnection time out"
	case DisconnectReconnectError:
		return "Session closed due to failed reconnection"
	default:
		return "Unknown"
	}
}
