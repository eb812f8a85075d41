// Package lifecycle guards process-wide protocol engine initialization.
//
// A process initializes its engine at most once, in one of two modes:
//   - fresh: a new port is opened, and by default any subscriptions left on
//     it by an earlier run are cancelled
//   - resumed: a session blob from an earlier process is loaded, keeping its
//     port and subscriptions
//
// Once initialization succeeds the Guard never resets; later Init calls are
// silent no-ops even if they ask for a different mode. A failed Init leaves
// the Guard uninitialized so the caller can retry.
package lifecycle
