// Package persistence stores the state a process hands to its successor when
// it exits without tearing down its subscriptions.
//
// SessionStore keeps the engine's opaque session blob, the realm it was issued
// for and a snapshot of the subscription set at exit. The snapshot is
// informational; the resuming process resyncs from the server.
// ServerStateStore keeps the port table of an in-process loopback server so a
// handed-off session still has a port to resume on the next run.
package persistence
