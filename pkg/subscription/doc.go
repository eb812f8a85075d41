// Package subscription implements the client-side subscription registry.
//
// A Registry mirrors the list of (class, instance, recipient) triples the
// protocol engine holds for this process. It is the only code that mutates
// that remote list, and it keeps its local copy in step with it:
//
//   - Add subscribes and records the key only after the engine confirms.
//   - Remove unsubscribes and forgets the key only after the engine confirms.
//   - Clear cancels everything in one engine call.
//   - Resync replaces the local copy with the engine's authoritative list.
//
// A failed engine call leaves the local copy as it was, so the registry never
// reports a subscription the engine has not confirmed.
//
// # Keys
//
// Keys are normalized before every lookup, insert or removal. A leading "*"
// on the recipient is dropped, and a recipient without "@" gets the engine's
// realm appended:
//
//	KeyOf("message", "personal", "*joe").Normalize("ATHENA.MIT.EDU")
//	// => {message personal joe@ATHENA.MIT.EDU}
//
// # Lifecycle
//
// Default returns the process-wide registry, initializing the engine through
// lifecycle.Process on first use. The caller owns teardown:
//
//	reg, err := subscription.Default(ctx, eng)
//	if err != nil {
//	    return err
//	}
//	defer reg.Close(ctx)
//
// Close cancels every subscription unless cleanup has been disabled with
// SetCleanup(false), which is how a session is handed to another process.
//
// # Concurrency
//
// Registry methods are not safe for concurrent use. Each mutating call pairs
// an engine call with a local update, and a concurrent Resync could land in
// between; callers sharing a Registry must serialize access.
package subscription
