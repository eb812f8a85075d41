package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "protocol" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("category", event.Category.String()),
		slog.String("op", event.Op.String()),
	}
	if event.Realm != "" {
		attrs = append(attrs, slog.String("realm", event.Realm))
	}

	if event.Call != nil {
		if triple := event.Call.Triple(); triple != "" {
			attrs = append(attrs, slog.String("triple", triple))
		}
		if event.Call.Count > 0 {
			attrs = append(attrs, slog.Int("count", event.Call.Count))
		}
		attrs = append(attrs, slog.Duration("duration", event.Call.Duration))
	}
	if event.StateChange != nil {
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	}
	if event.Error != nil {
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Kind != "" {
			attrs = append(attrs, slog.String("error_kind", event.Error.Kind))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
