package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/zephyr-protocol/zephyr-go/pkg/log"
)

var baseTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)

// writeLog writes events to a fresh log file and returns its path.
func writeLog(t *testing.T, events ...log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

// sampleSession returns a short session: init, fresh port, one subscribe and
// one rejected unsubscribe.
func sampleSession(sessionID string, start time.Time) []log.Event {
	return []log.Event{
		{
			Timestamp: start,
			SessionID: sessionID,
			Category:  log.CategoryCall,
			Op:        log.OpInitialize,
			Call:      &log.CallEvent{Duration: 2 * time.Microsecond},
		},
		{
			Timestamp:   start.Add(time.Millisecond),
			SessionID:   sessionID,
			Category:    log.CategoryState,
			Op:          log.OpOpenPort,
			Realm:       "ATHENA.MIT.EDU",
			StateChange: &log.StateChangeEvent{OldState: "initialized", NewState: "fresh", Reason: "port opened"},
		},
		{
			Timestamp: start.Add(2 * time.Millisecond),
			SessionID: sessionID,
			Category:  log.CategoryCall,
			Op:        log.OpSubscribe,
			Realm:     "ATHENA.MIT.EDU",
			Call: &log.CallEvent{
				Class:     []byte("message"),
				Instance:  []byte("personal"),
				Recipient: []byte("@ATHENA.MIT.EDU"),
				Duration:  1500 * time.Microsecond,
			},
		},
		{
			Timestamp: start.Add(3 * time.Millisecond),
			SessionID: sessionID,
			Category:  log.CategoryError,
			Op:        log.OpUnsubscribe,
			Realm:     "ATHENA.MIT.EDU",
			Call: &log.CallEvent{
				Class:     []byte("help"),
				Instance:  []byte("*"),
				Recipient: []byte("@ATHENA.MIT.EDU"),
				Duration:  time.Millisecond,
			},
			Error: &log.ErrorEventData{Kind: "protocol error", Message: "unsubscribe: protocol error: no such subscription"},
		},
	}
}
