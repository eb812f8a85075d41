package subscription_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
	"github.com/zephyr-protocol/zephyr-go/pkg/engine/mocks"
	"github.com/zephyr-protocol/zephyr-go/pkg/lifecycle"
	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

var quiet = subscription.WithLogger(slog.New(slog.DiscardHandler))

// readyGuard returns a guard that has already initialized a throwaway engine,
// so registries built on it send nothing to their own engine at construction.
func readyGuard(t *testing.T) *lifecycle.Guard {
	t.Helper()
	boot := mocks.NewMockEngine(t)
	boot.EXPECT().Initialize(mock.Anything).Return(nil)
	boot.EXPECT().OpenPort(mock.Anything).Return(nil)
	boot.EXPECT().CancelSubscriptions(mock.Anything).Return(nil)

	g := &lifecycle.Guard{}
	require.NoError(t, g.Init(context.Background(), boot))
	return g
}

func newRegistry(t *testing.T) (*subscription.Registry, *mocks.MockEngine) {
	t.Helper()
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().Realm().Return(realm).Maybe()

	reg, err := subscription.New(context.Background(), eng, readyGuard(t), quiet)
	require.NoError(t, err)
	return reg, eng
}

func triple(class, instance, recipient string) engine.Triple {
	return engine.NewTriple(class, instance, recipient)
}

func TestNew_InitializesEngine(t *testing.T) {
	ctx := context.Background()
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().Initialize(mock.Anything).Return(nil).Once()
	eng.EXPECT().OpenPort(mock.Anything).Return(nil).Once()
	eng.EXPECT().CancelSubscriptions(mock.Anything).Return(nil).Once()

	g := &lifecycle.Guard{}
	reg, err := subscription.New(ctx, eng, g, quiet)
	require.NoError(t, err)

	assert.True(t, g.Initialized())
	assert.True(t, reg.Cleanup(), "cleanup defaults to true")
	assert.Zero(t, reg.Len())
}

func TestNew_InitFailure(t *testing.T) {
	eng := mocks.NewMockEngine(t)
	eng.EXPECT().Initialize(mock.Anything).Return(engine.EngineError("initialize", nil)).Once()

	reg, err := subscription.New(context.Background(), eng, &lifecycle.Guard{}, quiet)
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.Nil(t, reg)
}

func TestAdd_Idempotent(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, triple("message", "personal", "joe@ATHENA.MIT.EDU")).
		Return(nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	assert.Equal(t, 1, reg.Len())

	// Same key in another spelling normalizes identically.
	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "*joe")))
	require.NoError(t, reg.Add(ctx, subscription.KeyOf([]byte("message"), []byte("personal"), []byte("joe@ATHENA.MIT.EDU"))))
	assert.Equal(t, 1, reg.Len())
}

func TestAdd_SendsNormalizedTriple(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, triple("message", "personal", "joe@OTHER.EDU")).Return(nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "*joe@OTHER.EDU")))
	assert.Equal(t, []subscription.Key{subscription.KeyOf("message", "personal", "joe@OTHER.EDU")}, reg.Keys())
}

func TestAdd_FailureLeavesRegistryUnchanged(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	rejected := engine.ProtocolError("subscribe", errors.New("server NACK"))
	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(rejected).Once()

	err := reg.Add(ctx, subscription.KeyOf("message", "personal", "joe"))
	assert.Same(t, rejected, err)
	assert.ErrorIs(t, err, engine.ErrProtocol)
	assert.Zero(t, reg.Len())
	assert.False(t, reg.Contains(subscription.KeyOf("message", "personal", "joe")))
}

func TestAdd_RejectsDoubleWildcard(t *testing.T) {
	reg, eng := newRegistry(t)

	err := reg.Add(context.Background(), subscription.KeyOf("message", "personal", "**joe"))
	assert.ErrorIs(t, err, subscription.ErrInvalidKey)
	assert.Zero(t, reg.Len())
	eng.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
}

func TestStoredKeysRemainAddressable(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, triple("message", "personal", "joe@ATHENA.MIT.EDU")).Return(nil).Once()
	eng.EXPECT().Unsubscribe(mock.Anything, triple("message", "personal", "joe@ATHENA.MIT.EDU")).Return(nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "*joe")))
	stored := reg.Keys()
	require.Len(t, stored, 1)

	assert.True(t, reg.Contains(stored[0]))
	require.NoError(t, reg.Remove(ctx, stored[0]))
	assert.Zero(t, reg.Len())
}

func TestRemove_RejectsDoubleWildcard(t *testing.T) {
	reg, eng := newRegistry(t)

	err := reg.Remove(context.Background(), subscription.KeyOf("message", "personal", "**joe"))
	assert.ErrorIs(t, err, subscription.ErrInvalidKey)
	assert.False(t, reg.Contains(subscription.KeyOf("message", "personal", "**joe")))
	eng.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
}

func TestRemove_Absent(t *testing.T) {
	reg, eng := newRegistry(t)

	err := reg.Remove(context.Background(), subscription.KeyOf("message", "personal", "joe"))
	assert.ErrorIs(t, err, subscription.ErrNotSubscribed)
	eng.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
}

func TestDiscard_Absent(t *testing.T) {
	reg, eng := newRegistry(t)

	assert.NoError(t, reg.Discard(context.Background(), subscription.KeyOf("message", "personal", "joe")))
	eng.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
}

func TestRemove_Present(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)
	want := triple("message", "personal", "joe@ATHENA.MIT.EDU")

	eng.EXPECT().Subscribe(mock.Anything, want).Return(nil).Once()
	eng.EXPECT().Unsubscribe(mock.Anything, want).Return(nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	require.NoError(t, reg.Remove(ctx, subscription.KeyOf("message", "personal", "*joe")))
	assert.Zero(t, reg.Len())

	// Second removal is a NotFound, not a second engine call.
	assert.ErrorIs(t, reg.Remove(ctx, subscription.KeyOf("message", "personal", "joe")), subscription.ErrNotSubscribed)
}

func TestRemove_FailureKeepsEntry(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().Unsubscribe(mock.Anything, mock.Anything).
		Return(engine.ProtocolError("unsubscribe", errors.New("timeout"))).Twice()

	key := subscription.KeyOf("message", "personal", "joe")
	require.NoError(t, reg.Add(ctx, key))

	assert.ErrorIs(t, reg.Remove(ctx, key), engine.ErrProtocol)
	assert.True(t, reg.Contains(key))

	// Discard only swallows NotFound.
	assert.ErrorIs(t, reg.Discard(ctx, key), engine.ErrProtocol)
	assert.True(t, reg.Contains(key))
}

func TestClear_SingleBulkCancel(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Times(3)
	eng.EXPECT().CancelSubscriptions(mock.Anything).Return(nil).Once()

	for _, who := range []string{"joe", "ann", "bob"} {
		require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", who)))
	}
	require.Equal(t, 3, reg.Len())

	require.NoError(t, reg.Clear(ctx))
	assert.Zero(t, reg.Len())
	eng.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
}

func TestClear_FailureStillEmpties(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().CancelSubscriptions(mock.Anything).
		Return(engine.ProtocolError("cancel_subscriptions", nil)).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	assert.ErrorIs(t, reg.Clear(ctx), engine.ErrProtocol)
	assert.Zero(t, reg.Len())
}

func TestResync_ReplacesLocalState(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().Subscriptions(mock.Anything).Return([]engine.Triple{
		triple("message", "personal", "*ann"),
		triple("help", "*", "*"),
		triple("message", "urgent", "bob@OTHER.EDU"),
		triple("message", "personal", "ann@ATHENA.MIT.EDU"),
	}, nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	require.NoError(t, reg.Resync(ctx))

	assert.Equal(t, []subscription.Key{
		subscription.KeyOf("help", "*", "@ATHENA.MIT.EDU"),
		subscription.KeyOf("message", "personal", "ann@ATHENA.MIT.EDU"),
		subscription.KeyOf("message", "urgent", "bob@OTHER.EDU"),
	}, reg.Keys())
	assert.False(t, reg.Contains(subscription.KeyOf("message", "personal", "joe")))
	eng.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
}

func TestResync_EmptyList(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().Subscriptions(mock.Anything).Return(nil, nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	require.NoError(t, reg.Resync(ctx))
	assert.Zero(t, reg.Len())
}

func TestResync_FailureLeavesRegistryUnchanged(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().Subscriptions(mock.Anything).Return(nil, engine.ProtocolError("subscriptions", nil)).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	assert.ErrorIs(t, reg.Resync(ctx), engine.ErrProtocol)
	assert.Equal(t, 1, reg.Len())
}

func TestResync_RejectsDoubleWildcard(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().Subscriptions(mock.Anything).Return([]engine.Triple{
		triple("message", "personal", "ann@ATHENA.MIT.EDU"),
		triple("message", "personal", "**joe"),
	}, nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "bob")))
	assert.ErrorIs(t, reg.Resync(ctx), subscription.ErrInvalidKey)
	assert.Equal(t, []subscription.Key{
		subscription.KeyOf("message", "personal", "bob@ATHENA.MIT.EDU"),
	}, reg.Keys())
}

func TestAddDefaults_ResyncsAfterSubscribing(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	defaults := eng.EXPECT().SubscribeDefaults(mock.Anything).Return(nil).Once()
	eng.EXPECT().Subscriptions(mock.Anything).Return([]engine.Triple{
		triple("message", "*", "%me%@ATHENA.MIT.EDU"),
	}, nil).Once().NotBefore(defaults)

	require.NoError(t, reg.AddDefaults(ctx))
	assert.Equal(t, []subscription.Key{subscription.KeyOf("message", "*", "%me%@ATHENA.MIT.EDU")}, reg.Keys())
}

func TestAddDefaults_Failure(t *testing.T) {
	reg, eng := newRegistry(t)
	eng.EXPECT().SubscribeDefaults(mock.Anything).Return(engine.ProtocolError("subscribe_defaults", nil)).Once()

	assert.ErrorIs(t, reg.AddDefaults(context.Background()), engine.ErrProtocol)
	eng.AssertNotCalled(t, "Subscriptions", mock.Anything)
}

func TestClose_CancelsOnce(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Once()
	eng.EXPECT().CancelSubscriptions(mock.Anything).Return(nil).Once()

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("message", "personal", "joe")))
	require.NoError(t, reg.Close(ctx))
	require.NoError(t, reg.Close(ctx))

	assert.True(t, reg.Closed())
	assert.Zero(t, reg.Len())
}

func TestClose_WithoutCleanup(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	reg.SetCleanup(false)
	assert.False(t, reg.Cleanup())

	require.NoError(t, reg.Close(ctx))
	require.NoError(t, reg.Close(ctx))
	eng.AssertNotCalled(t, "CancelSubscriptions", mock.Anything)
}

func TestClose_FailureIsNotRetried(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)

	eng.EXPECT().CancelSubscriptions(mock.Anything).Return(engine.ProtocolError("cancel_subscriptions", nil)).Once()

	assert.ErrorIs(t, reg.Close(ctx), engine.ErrProtocol)
	assert.NoError(t, reg.Close(ctx))
	assert.True(t, reg.Closed())
}

func TestClosedRegistryRejectsMutation(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)
	eng.EXPECT().CancelSubscriptions(mock.Anything).Return(nil).Once()
	require.NoError(t, reg.Close(ctx))

	key := subscription.KeyOf("message", "personal", "joe")
	assert.ErrorIs(t, reg.Add(ctx, key), subscription.ErrClosed)
	assert.ErrorIs(t, reg.Remove(ctx, key), subscription.ErrClosed)
	assert.ErrorIs(t, reg.Discard(ctx, key), subscription.ErrClosed)
	assert.ErrorIs(t, reg.Clear(ctx), subscription.ErrClosed)
	assert.ErrorIs(t, reg.Resync(ctx), subscription.ErrClosed)
	assert.ErrorIs(t, reg.AddDefaults(ctx), subscription.ErrClosed)
	_, err := reg.Handoff(ctx)
	assert.ErrorIs(t, err, subscription.ErrClosed)
}

// exportingEngine adds session export to the generated mock.
type exportingEngine struct {
	*mocks.MockEngine
	blob []byte
	err  error
}

func (e *exportingEngine) DumpSession(context.Context) ([]byte, error) {
	return e.blob, e.err
}

func TestHandoff(t *testing.T) {
	ctx := context.Background()
	eng := &exportingEngine{MockEngine: mocks.NewMockEngine(t), blob: []byte("session")}
	eng.EXPECT().Realm().Return(realm).Maybe()

	reg, err := subscription.New(ctx, eng, readyGuard(t), quiet)
	require.NoError(t, err)

	blob, err := reg.Handoff(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("session"), blob)
	assert.False(t, reg.Cleanup())

	require.NoError(t, reg.Close(ctx))
	eng.AssertNotCalled(t, "CancelSubscriptions", mock.Anything)
}

func TestHandoff_ExportFailureKeepsCleanup(t *testing.T) {
	ctx := context.Background()
	eng := &exportingEngine{MockEngine: mocks.NewMockEngine(t), err: engine.EngineError("dump_session", nil)}

	reg, err := subscription.New(ctx, eng, readyGuard(t), quiet)
	require.NoError(t, err)

	_, err = reg.Handoff(ctx)
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.True(t, reg.Cleanup())
}

func TestHandoff_Unsupported(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Handoff(context.Background())
	assert.ErrorIs(t, err, engine.ErrEngine)
	assert.True(t, reg.Cleanup())
}

func TestKeysSortedCopy(t *testing.T) {
	ctx := context.Background()
	reg, eng := newRegistry(t)
	eng.EXPECT().Subscribe(mock.Anything, mock.Anything).Return(nil).Times(3)

	require.NoError(t, reg.Add(ctx, subscription.KeyOf("zeta", "b", "x")))
	require.NoError(t, reg.Add(ctx, subscription.KeyOf("alpha", "b", "x")))
	require.NoError(t, reg.Add(ctx, subscription.KeyOf("alpha", "a", "x")))

	keys := reg.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "alpha", keys[0].Class)
	assert.Equal(t, "a", keys[0].Instance)
	assert.Equal(t, "zeta", keys[2].Class)

	keys[0] = subscription.Key{}
	assert.True(t, reg.Contains(subscription.KeyOf("alpha", "a", "x")))
}
