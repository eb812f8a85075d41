// Package commands implements the zsubs log subcommands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/zephyr-protocol/zephyr-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	SessionID string
	Category  *log.Category
	Op        *log.Op
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{SessionID: f.SessionID, Category: f.Category, Op: f.Op}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] CATEGORY op
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [session:%s] %-5s %s\n", ts, shortenID(event.SessionID), event.Category.String(), event.Op.String())

	if event.Realm != "" {
		fmt.Fprintf(w, "  Realm: %s\n", event.Realm)
	}
	if event.Call != nil {
		formatCallDetails(w, event.Op, event.Call)
	}
	if event.StateChange != nil {
		formatStateChangeDetails(w, event.StateChange)
	}
	if event.Error != nil {
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatCallDetails(w io.Writer, op log.Op, call *log.CallEvent) {
	if t := call.Triple(); t != "" {
		fmt.Fprintf(w, "  Triple: %s\n", t)
	}
	switch op {
	case log.OpSubscriptions:
		fmt.Fprintf(w, "  Subscriptions: %d\n", call.Count)
	case log.OpLoadSession, log.OpDumpSession:
		fmt.Fprintf(w, "  Session: %d bytes\n", call.Count)
	}
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(call.Duration))
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	if err.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s\n", err.Kind)
	}
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(s)
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be call, state, or error)", s)
	}
	return c, nil
}

// ParseOpFlag parses an engine operation name from command-line flag.
func ParseOpFlag(s string) (log.Op, error) {
	op, ok := log.ParseOp(s)
	if !ok {
		return 0, fmt.Errorf("invalid op: %s (e.g. subscribe, unsubscribe, cancel_subscriptions)", s)
	}
	return op, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
