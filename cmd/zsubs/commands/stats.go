package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/zephyr-protocol/zephyr-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	CallsByOp        map[log.Op]int
	ErrorsByKind     map[string]int
	Sessions         map[string]*SessionStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single registry session.
type SessionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Realm      string
	Mode       string
	Subscribes int
	Errors     int
	CallTime   time.Duration
}

// CollectStats reads the log file and aggregates its events.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		CallsByOp:        make(map[log.Op]int),
		ErrorsByKind:     make(map[string]int),
		Sessions:         make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if event.Realm != "" && sess.Realm == "" {
			sess.Realm = event.Realm
		}

		switch event.Category {
		case log.CategoryCall:
			stats.CallsByOp[event.Op]++
			if event.Op == log.OpSubscribe {
				sess.Subscribes++
			}
		case log.CategoryState:
			if sc := event.StateChange; sc != nil && (sc.NewState == "fresh" || sc.NewState == "resumed") {
				sess.Mode = sc.NewState
			}
		case log.CategoryError:
			sess.Errors++
			if event.Error != nil {
				kind := event.Error.Kind
				if kind == "" {
					kind = "unclassified"
				}
				stats.ErrorsByKind[kind]++
			}
		}
		if event.Call != nil {
			sess.CallTime += event.Call.Duration
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Subscription Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryCall, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-22s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.CallsByOp) > 0 {
		fmt.Fprintln(w, "Calls by Operation:")
		ops := make([]log.Op, 0, len(stats.CallsByOp))
		for op := range stats.CallsByOp {
			ops = append(ops, op)
		}
		sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
		for _, op := range ops {
			fmt.Fprintf(w, "  %-22s %d\n", op.String()+":", stats.CallsByOp[op])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)
			if s.stats.Realm != "" {
				fmt.Fprintf(w, "           Realm: %s\n", s.stats.Realm)
			}
			if s.stats.Mode != "" {
				fmt.Fprintf(w, "           Mode: %s\n", s.stats.Mode)
			}
			fmt.Fprintf(w, "           Subscribes: %d, engine time %s\n", s.stats.Subscribes, formatDuration(s.stats.CallTime))
			if s.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", s.stats.Errors)
			}
		}
	}

	if len(stats.ErrorsByKind) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors by Kind:")
		kinds := make([]string, 0, len(stats.ErrorsByKind))
		for k := range stats.ErrorsByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-22s %d\n", k+":", stats.ErrorsByKind[k])
		}
	}
}
