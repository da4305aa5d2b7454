// Package transport owns the live WebSocket per device: dialing with
// mutual TLS, the per-socket read pump, fire-and-forget writes, and the
// connected/disconnected/message notification surface consumed by the
// dispatcher above it.
package transport
