// Package log provides structured protocol capture for the subscription
// registry's engine traffic.
//
// Protocol capture is separate from operational logging (slog). It records
// every engine call the registry makes, with the triple involved and the
// outcome, so a session can be replayed and checked against the server's
// view after the fact.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to a binary file
//	logger, _ := log.NewFileLogger("/var/log/zsubs/session.zlog")
//
//	// Both
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Every Event carries a Category:
//   - CategoryCall: a completed engine call (CallEvent)
//   - CategoryState: a session state transition (StateChangeEvent)
//   - CategoryError: a failed engine call (CallEvent plus ErrorEventData)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, using the
// .zlog extension. "zsubs log" prints them.
package log
