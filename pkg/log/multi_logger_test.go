package log

import (
	"testing"
	"time"
)

// recordingLogger records events for testing.
type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.events = append(r.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	loggers := []*recordingLogger{{}, {}, {}}
	multi := NewMultiLogger(loggers[0], loggers[1], loggers[2])

	multi.Log(Event{Timestamp: time.Now(), SessionID: "sess-123", Op: OpSubscribe})

	for i, l := range loggers {
		if len(l.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(l.events))
			continue
		}
		if l.events[0].SessionID != "sess-123" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, l.events[0].SessionID, "sess-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	NewMultiLogger().Log(Event{SessionID: "sess-123"})
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	rec := &recordingLogger{}
	multi := NewMultiLogger(nil, rec, nil)

	multi.Log(Event{SessionID: "sess-456"})

	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
}
