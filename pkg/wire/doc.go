// Package wire defines the JSON wire format types for the ROM protocol.
//
// ROM messages are single JSON documents exchanged over a persistent
// WebSocket connection to the device.
//
// # Message Types
//
// There are three primary message shapes:
//   - Command: client to device, wrapped in a ClientHeader envelope
//   - Acknowledgement: device to client, the synchronous reply to a command
//   - Event: device to client, asynchronous and possibly repeated
//
// Acknowledgements and events both carry the transaction id of the command
// they belong to. They are distinguished by the presence of a "Response"
// key (acknowledgement) versus an "EventBody" key (event); Classify
// performs that dispatch at the ingress boundary.
//
// # Response Codes
//
// Response codes follow an HTTP-like table. Codes below 400 are success
// classes; 400 and above are universally treated as failure.
package wire
