// Package requester implements the transaction dispatcher: the single
// owner of outbound transaction-id issuance and the in-flight
// correlation-token registry for one device connection. It wraps
// commands in the session envelope, routes inbound acknowledgements and
// events to their tokens, and exposes the capability API surface.
package requester
