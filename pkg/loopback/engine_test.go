package loopback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
)

func newOpenEngine(t *testing.T, srv *Server) *Engine {
	t.Helper()
	ctx := context.Background()
	eng := NewEngine(srv)
	require.NoError(t, eng.Initialize(ctx))
	require.NoError(t, eng.OpenPort(ctx))
	return eng
}

func TestEngineInitializeIdempotent(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(NewServer(ServerConfig{Realm: testRealm}))

	require.NoError(t, eng.Initialize(ctx))
	require.NoError(t, eng.Initialize(ctx))
}

func TestEngineRequiresInitialize(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(NewServer(ServerConfig{Realm: testRealm}))

	err := eng.OpenPort(ctx)
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = eng.LoadSession(ctx, []byte("x"))
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = eng.Subscribe(ctx, engine.NewTriple("a", "", ""))
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEngineRequiresPort(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(NewServer(ServerConfig{Realm: testRealm}))
	require.NoError(t, eng.Initialize(ctx))

	tr := engine.NewTriple("a", "", "")
	for name, err := range map[string]error{
		"subscribe":   eng.Subscribe(ctx, tr),
		"unsubscribe": eng.Unsubscribe(ctx, tr),
		"cancel":      eng.CancelSubscriptions(ctx),
		"defaults":    eng.SubscribeDefaults(ctx),
	} {
		assert.ErrorIs(t, err, engine.ErrEngine, name)
		assert.ErrorIs(t, err, ErrNoPort, name)
	}

	_, err := eng.Subscriptions(ctx)
	assert.ErrorIs(t, err, ErrNoPort)

	_, err = eng.DumpSession(ctx)
	assert.ErrorIs(t, err, ErrNoPort)
}

func TestEngineSubscribeLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := NewServer(DefaultServerConfig(testRealm))
	eng := newOpenEngine(t, srv)

	assert.NotZero(t, eng.Port())
	assert.NotEqual(t, uuid.Nil, eng.SessionID())
	assert.Equal(t, testRealm, eng.Realm())

	a := engine.NewTriple("a", "1", "")
	require.NoError(t, eng.Subscribe(ctx, a))
	require.NoError(t, eng.SubscribeDefaults(ctx))

	subs, err := eng.Subscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.True(t, subs[0].Equal(a))

	require.NoError(t, eng.Unsubscribe(ctx, a))
	err = eng.Unsubscribe(ctx, a)
	assert.ErrorIs(t, err, engine.ErrProtocol)
	assert.ErrorIs(t, err, ErrNotSubscribed)

	require.NoError(t, eng.CancelSubscriptions(ctx))
	subs, err = eng.Subscriptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestEngineRejectIsProtocolError(t *testing.T) {
	ctx := context.Background()
	srv := NewServer(ServerConfig{Realm: testRealm})
	eng := newOpenEngine(t, srv)

	errNack := errors.New("server nack")
	srv.Reject(func(string, engine.Triple) error { return errNack })

	err := eng.Subscribe(ctx, engine.NewTriple("a", "", ""))
	assert.ErrorIs(t, err, engine.ErrProtocol)
	assert.ErrorIs(t, err, errNack)

	var engErr *engine.Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, "subscribe", engErr.Op)
}

func TestEngineCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine(NewServer(ServerConfig{Realm: testRealm}))
	assert.ErrorIs(t, eng.Initialize(ctx), context.Canceled)
	assert.ErrorIs(t, eng.Subscribe(ctx, engine.NewTriple("a", "", "")), context.Canceled)
}

func TestEngineSessionResume(t *testing.T) {
	ctx := context.Background()
	srv := NewServer(ServerConfig{Realm: testRealm})
	first := newOpenEngine(t, srv)

	a := engine.NewTriple("a", "1", "")
	require.NoError(t, first.Subscribe(ctx, a))

	blob, err := first.DumpSession(ctx)
	require.NoError(t, err)

	second := NewEngine(srv)
	require.NoError(t, second.Initialize(ctx))
	require.NoError(t, second.LoadSession(ctx, blob))

	assert.Equal(t, first.Port(), second.Port())
	assert.Equal(t, first.SessionID(), second.SessionID())

	subs, err := second.Subscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Equal(a))
}

func TestEngineSessionExpired(t *testing.T) {
	ctx := context.Background()
	srv := NewServer(ServerConfig{Realm: testRealm, SessionTTL: time.Hour})
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv.SetClock(func() time.Time { return start })

	blob, err := newOpenEngine(t, srv).DumpSession(ctx)
	require.NoError(t, err)

	srv.SetClock(func() time.Time { return start.Add(2 * time.Hour) })

	eng := NewEngine(srv)
	require.NoError(t, eng.Initialize(ctx))
	err = eng.LoadSession(ctx, blob)
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, eng.Port())
}

func TestEngineSessionUnknown(t *testing.T) {
	ctx := context.Background()
	srv := NewServer(ServerConfig{Realm: testRealm})

	blob, err := newOpenEngine(t, srv).DumpSession(ctx)
	require.NoError(t, err)

	// Same blob presented to a server that never issued it.
	eng := NewEngine(NewServer(ServerConfig{Realm: testRealm}))
	require.NoError(t, eng.Initialize(ctx))
	assert.ErrorIs(t, eng.LoadSession(ctx, blob), ErrUnknownSession)
}

func TestEngineSessionRealmMismatch(t *testing.T) {
	ctx := context.Background()
	blob, err := newOpenEngine(t, NewServer(ServerConfig{Realm: testRealm})).DumpSession(ctx)
	require.NoError(t, err)

	eng := NewEngine(NewServer(ServerConfig{Realm: "EXAMPLE.COM"}))
	require.NoError(t, eng.Initialize(ctx))
	assert.ErrorIs(t, eng.LoadSession(ctx, blob), ErrRealmMismatch)
}

func TestEngineSessionMalformed(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(NewServer(ServerConfig{Realm: testRealm}))
	require.NoError(t, eng.Initialize(ctx))

	err := eng.LoadSession(ctx, []byte("not a session"))
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.ErrorIs(t, err, ErrMalformedSession)
}
