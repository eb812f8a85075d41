// Package engine defines the contract between the subscription registry and
// the protocol engine.
//
// The protocol engine owns everything below the registry: transport setup,
// port allocation, session serialization, packet encoding and realm
// resolution. The registry only needs the raw subscription primitives listed
// on Engine, and it treats every failure they report as authoritative.
//
// # Errors
//
// Engines report failures as *Error values whose Kind is one of:
//   - ErrEngine: setup failure, port allocation failure, malformed or
//     expired session data
//   - ErrProtocol: transport failure or server rejection of a
//     subscribe/unsubscribe request
//
// Callers test with errors.Is:
//
//	if errors.Is(err, engine.ErrProtocol) {
//	    // server refused the request
//	}
//
// # Protocol Capture
//
// WithLogger wraps an Engine and records every call as a log.Event, the same
// way the transport layer feeds the protocol log:
//
//	eng = engine.WithLogger(eng, log.NewSlogAdapter(slog.Default()), sessionID)
package engine
