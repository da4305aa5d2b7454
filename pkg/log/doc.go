// Package log provides protocol event logging for the ROM client engine.
//
// Components accept a Logger and emit structured events for every frame,
// decoded message, state change, and error. Applications choose the sink:
// NoopLogger (disabled), SlogAdapter (console via log/slog), FileLogger
// (compact CBOR capture files readable with Reader), or MultiLogger to
// combine sinks.
//
// Logging never disrupts the protocol: sinks swallow their own errors and
// must not block for long.
package log
