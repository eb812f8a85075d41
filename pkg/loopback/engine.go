package loopback

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
)

// Engine is an engine.Engine backed by a Server. It is safe for concurrent use.
type Engine struct {
	srv *Server

	mu          sync.Mutex
	initialized bool
	port        uint16
	sessionID   uuid.UUID
}

// NewEngine creates an engine bound to srv.
func NewEngine(srv *Server) *Engine {
	return &Engine{srv: srv}
}

// Port returns the attached port, 0 if none.
func (e *Engine) Port() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.port
}

// SessionID returns the attached session, uuid.Nil if none.
func (e *Engine) SessionID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Initialize marks the engine ready. Repeated calls are harmless.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return engine.EngineError("initialize", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
	return nil
}

// OpenPort allocates a new port on the server.
func (e *Engine) OpenPort(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return engine.EngineError("open_port", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return engine.EngineError("open_port", ErrNotInitialized)
	}
	p, id, err := e.srv.openPort()
	if err != nil {
		return engine.EngineError("open_port", err)
	}
	e.port = p
	e.sessionID = id
	return nil
}

// LoadSession attaches to the port described by blob.
func (e *Engine) LoadSession(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return engine.EngineError("load_session", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return engine.EngineError("load_session", ErrNotInitialized)
	}
	d, id, err := decodeSession(blob)
	if err != nil {
		return engine.EngineError("load_session", err)
	}
	if d.Realm != e.srv.Realm() {
		return engine.EngineError("load_session", ErrRealmMismatch)
	}
	if err := e.srv.attach(d.Port, id, d.IssuedAt); err != nil {
		return engine.EngineError("load_session", err)
	}
	e.port = d.Port
	e.sessionID = id
	return nil
}

// DumpSession serializes the attached port so another engine can resume it.
func (e *Engine) DumpSession(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, engine.EngineError("dump_session", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.port == 0 {
		return nil, engine.EngineError("dump_session", ErrNoPort)
	}
	blob, err := encodeSession(sessionData{
		Version:   sessionVersion,
		SessionID: e.sessionID[:],
		Port:      e.port,
		Realm:     e.srv.Realm(),
		IssuedAt:  e.srv.clock(),
	})
	if err != nil {
		return nil, engine.EngineError("dump_session", err)
	}
	return blob, nil
}

// CancelSubscriptions drops every subscription on the port.
func (e *Engine) CancelSubscriptions(ctx context.Context) error {
	p, err := e.attached(ctx, "cancel_subscriptions")
	if err != nil {
		return err
	}
	if err := e.srv.cancel(p); err != nil {
		return engine.ProtocolError("cancel_subscriptions", err)
	}
	return nil
}

// Subscribe adds t to the port's list. Subscribing twice is not an error.
func (e *Engine) Subscribe(ctx context.Context, t engine.Triple) error {
	p, err := e.attached(ctx, "subscribe")
	if err != nil {
		return err
	}
	if err := e.srv.subscribe(p, t); err != nil {
		return engine.ProtocolError("subscribe", err)
	}
	return nil
}

// Unsubscribe removes t from the port's list. The server refuses to remove a
// triple it does not hold.
func (e *Engine) Unsubscribe(ctx context.Context, t engine.Triple) error {
	p, err := e.attached(ctx, "unsubscribe")
	if err != nil {
		return err
	}
	if err := e.srv.unsubscribe(p, t); err != nil {
		return engine.ProtocolError("unsubscribe", err)
	}
	return nil
}

// SubscribeDefaults adds the server's default set.
func (e *Engine) SubscribeDefaults(ctx context.Context) error {
	p, err := e.attached(ctx, "subscribe_defaults")
	if err != nil {
		return err
	}
	if err := e.srv.subscribeDefaults(p); err != nil {
		return engine.ProtocolError("subscribe_defaults", err)
	}
	return nil
}

// Subscriptions returns the port's list in subscription order.
func (e *Engine) Subscriptions(ctx context.Context) ([]engine.Triple, error) {
	p, err := e.attached(ctx, "subscriptions")
	if err != nil {
		return nil, err
	}
	subs, err := e.srv.list(p)
	if err != nil {
		return nil, engine.ProtocolError("subscriptions", err)
	}
	return subs, nil
}

// Realm returns the server's realm.
func (e *Engine) Realm() string {
	return e.srv.Realm()
}

// attached returns the current port, failing with ErrEngine if the engine
// has no port yet.
func (e *Engine) attached(ctx context.Context, op string) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, engine.ProtocolError(op, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return 0, engine.EngineError(op, ErrNotInitialized)
	}
	if e.port == 0 {
		return 0, engine.EngineError(op, ErrNoPort)
	}
	return e.port, nil
}

// Compile-time interface satisfaction checks.
var (
	_ engine.Engine          = (*Engine)(nil)
	_ engine.SessionExporter = (*Engine)(nil)
)
