package log

// Logger receives the events produced by engine.WithLogger. Log is called
// synchronously from the engine call path, so implementations must not block
// and must be safe for concurrent use.
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
