package engine

import (
	"context"
	"errors"
	"time"

	"github.com/zephyr-protocol/zephyr-go/pkg/log"
)

// LoggedEngine forwards every call to the wrapped Engine and records it as a
// protocol log event.
type LoggedEngine struct {
	next      Engine
	logger    log.Logger
	sessionID string
	now       func() time.Time
}

// WithLogger wraps eng so every call is captured by logger under sessionID.
// A nil logger returns eng unchanged.
func WithLogger(eng Engine, logger log.Logger, sessionID string) Engine {
	if logger == nil {
		return eng
	}
	return &LoggedEngine{
		next:      eng,
		logger:    logger,
		sessionID: sessionID,
		now:       time.Now,
	}
}

// Unwrap returns the wrapped engine.
func (e *LoggedEngine) Unwrap() Engine {
	return e.next
}

// Initialize records the call and an "initialized" state change on success.
func (e *LoggedEngine) Initialize(ctx context.Context) error {
	err := e.record(log.OpInitialize, nil, func() (int, error) {
		return 0, e.next.Initialize(ctx)
	})
	if err == nil {
		e.state(log.OpInitialize, "", "initialized", "")
	}
	return err
}

// OpenPort records the call and a "fresh" state change on success.
func (e *LoggedEngine) OpenPort(ctx context.Context) error {
	err := e.record(log.OpOpenPort, nil, func() (int, error) {
		return 0, e.next.OpenPort(ctx)
	})
	if err == nil {
		e.state(log.OpOpenPort, "initialized", "fresh", "port opened")
	}
	return err
}

// LoadSession records the call with the blob size and a "resumed" state
// change on success.
func (e *LoggedEngine) LoadSession(ctx context.Context, blob []byte) error {
	err := e.record(log.OpLoadSession, nil, func() (int, error) {
		return len(blob), e.next.LoadSession(ctx, blob)
	})
	if err == nil {
		e.state(log.OpLoadSession, "initialized", "resumed", "session data")
	}
	return err
}

// CancelSubscriptions records the call.
func (e *LoggedEngine) CancelSubscriptions(ctx context.Context) error {
	return e.record(log.OpCancelSubscriptions, nil, func() (int, error) {
		return 0, e.next.CancelSubscriptions(ctx)
	})
}

// Subscribe records the call with its triple.
func (e *LoggedEngine) Subscribe(ctx context.Context, t Triple) error {
	return e.record(log.OpSubscribe, &t, func() (int, error) {
		return 0, e.next.Subscribe(ctx, t)
	})
}

// Unsubscribe records the call with its triple.
func (e *LoggedEngine) Unsubscribe(ctx context.Context, t Triple) error {
	return e.record(log.OpUnsubscribe, &t, func() (int, error) {
		return 0, e.next.Unsubscribe(ctx, t)
	})
}

// SubscribeDefaults records the call.
func (e *LoggedEngine) SubscribeDefaults(ctx context.Context) error {
	return e.record(log.OpSubscribeDefaults, nil, func() (int, error) {
		return 0, e.next.SubscribeDefaults(ctx)
	})
}

// Subscriptions records the call with the number of triples returned.
func (e *LoggedEngine) Subscriptions(ctx context.Context) ([]Triple, error) {
	var subs []Triple
	err := e.record(log.OpSubscriptions, nil, func() (int, error) {
		var err error
		subs, err = e.next.Subscriptions(ctx)
		return len(subs), err
	})
	return subs, err
}

// Realm returns the wrapped engine's realm. It is not recorded.
func (e *LoggedEngine) Realm() string {
	return e.next.Realm()
}

// DumpSession forwards to the wrapped engine when it implements
// SessionExporter, and fails with ErrEngine otherwise.
func (e *LoggedEngine) DumpSession(ctx context.Context) ([]byte, error) {
	exporter, ok := e.next.(SessionExporter)
	if !ok {
		return nil, EngineError("dump_session", errors.New("session export not supported"))
	}
	var blob []byte
	err := e.record(log.OpDumpSession, nil, func() (int, error) {
		var err error
		blob, err = exporter.DumpSession(ctx)
		return len(blob), err
	})
	return blob, err
}

// record runs call and logs its outcome. The returned count is stored on the
// event.
func (e *LoggedEngine) record(op log.Op, t *Triple, call func() (int, error)) error {
	start := e.now()
	count, err := call()

	ev := log.Event{
		Timestamp: start,
		SessionID: e.sessionID,
		Category:  log.CategoryCall,
		Op:        op,
		Call: &log.CallEvent{
			Count:    count,
			Duration: e.now().Sub(start),
		},
	}
	if op != log.OpInitialize {
		ev.Realm = e.next.Realm()
	}
	if t != nil {
		ev.Call.Class = t.Class
		ev.Call.Instance = t.Instance
		ev.Call.Recipient = t.Recipient
	}
	if err != nil {
		ev.Category = log.CategoryError
		ev.Error = &log.ErrorEventData{Kind: errorKind(err), Message: err.Error()}
	}

	e.logger.Log(ev)
	return err
}

func (e *LoggedEngine) state(op log.Op, from, to, reason string) {
	e.logger.Log(log.Event{
		Timestamp:   e.now(),
		SessionID:   e.sessionID,
		Category:    log.CategoryState,
		Op:          op,
		Realm:       e.next.Realm(),
		StateChange: &log.StateChangeEvent{OldState: from, NewState: to, Reason: reason},
	})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrEngine):
		return ErrEngine.Error()
	case errors.Is(err, ErrProtocol):
		return ErrProtocol.Error()
	default:
		return ""
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Engine          = (*LoggedEngine)(nil)
	_ SessionExporter = (*LoggedEngine)(nil)
)
