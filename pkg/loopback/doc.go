// Package loopback provides an in-process protocol engine.
//
// A Server holds the authoritative subscription lists, one per port, the way
// a real subscription server would. Engine is an engine.Engine bound to a
// Server, so the registry can run end to end without a network:
//
//	srv := loopback.NewServer(loopback.DefaultServerConfig("ATHENA.MIT.EDU"))
//	eng := loopback.NewEngine(srv)
//	reg, err := subscription.New(ctx, eng, &lifecycle.Guard{})
//
// # Sessions
//
// DumpSession serializes the engine's port into a session blob that another
// Engine on the same Server can resume with LoadSession. Blobs are CBOR with
// a trailing BLAKE2b-256 digest; truncated, altered, expired or foreign blobs
// are rejected with engine.ErrEngine.
//
// # Fault Injection
//
// Server.Reject installs a hook consulted before every subscribe and
// unsubscribe, which is how tests simulate a server refusing a request.
package loopback
