package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
	"github.com/zephyr-protocol/zephyr-go/pkg/lifecycle"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the operational logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry tracks the subscriptions this process holds on the engine.
type Registry struct {
	eng     engine.Engine
	logger  *slog.Logger
	entries map[Key]struct{}
	cleanup bool
	closed  bool
}

// New creates a Registry for eng. The engine is initialized through guard
// with default arguments; if guard is already initialized nothing is sent.
// Cleanup on Close is enabled.
func New(ctx context.Context, eng engine.Engine, guard *lifecycle.Guard, opts ...Option) (*Registry, error) {
	if err := guard.Init(ctx, eng); err != nil {
		return nil, err
	}

	r := &Registry{
		eng:     eng,
		logger:  slog.Default(),
		entries: make(map[Key]struct{}),
		cleanup: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Normalize returns the canonical form of key using the engine's realm.
func (r *Registry) Normalize(key Key) Key {
	return key.Normalize(r.eng.Realm())
}

// Add subscribes to key. A key that is already registered is left alone
// without contacting the engine. A recipient with more than one leading
// wildcard marker is rejected with ErrInvalidKey.
func (r *Registry) Add(ctx context.Context, key Key) error {
	if r.closed {
		return ErrClosed
	}

	key, err := key.Canonical(r.eng.Realm())
	if err != nil {
		return err
	}
	if _, ok := r.entries[key]; ok {
		return nil
	}

	if err := r.eng.Subscribe(ctx, key.Triple()); err != nil {
		return err
	}

	r.entries[key] = struct{}{}
	r.logger.Debug("subscribed", "key", key.String(), "count", len(r.entries))
	return nil
}

// Remove unsubscribes from key. It returns ErrNotSubscribed if key is not
// registered.
func (r *Registry) Remove(ctx context.Context, key Key) error {
	if r.closed {
		return ErrClosed
	}

	key, err := key.Canonical(r.eng.Realm())
	if err != nil {
		return err
	}
	if _, ok := r.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotSubscribed, key)
	}

	if err := r.eng.Unsubscribe(ctx, key.Triple()); err != nil {
		return err
	}

	delete(r.entries, key)
	r.logger.Debug("unsubscribed", "key", key.String(), "count", len(r.entries))
	return nil
}

// Discard is Remove for callers that do not care whether key was registered.
// Engine failures are still returned.
func (r *Registry) Discard(ctx context.Context, key Key) error {
	err := r.Remove(ctx, key)
	if errors.Is(err, ErrNotSubscribed) {
		return nil
	}
	return err
}

// Clear cancels every subscription with a single engine call and empties the
// registry. The registry is emptied even when the engine call fails, so it
// may then miss subscriptions the engine still holds. The engine error is
// returned; call Resync to reload the engine's list.
func (r *Registry) Clear(ctx context.Context) error {
	if r.closed {
		return ErrClosed
	}

	err := r.eng.CancelSubscriptions(ctx)
	cleared := len(r.entries)
	clear(r.entries)
	if err != nil {
		r.logger.Warn("cancel all failed", "cleared", cleared, "error", err)
		return err
	}
	r.logger.Debug("cancelled all subscriptions", "cleared", cleared)
	return nil
}

// AddDefaults asks the engine to subscribe to its default set, then resyncs
// because the engine does not report which triples it added.
func (r *Registry) AddDefaults(ctx context.Context) error {
	if r.closed {
		return ErrClosed
	}

	if err := r.eng.SubscribeDefaults(ctx); err != nil {
		return err
	}
	return r.Resync(ctx)
}

// Resync replaces the registry contents with the engine's current list.
// Nothing is sent to the engine besides the query itself. If any returned
// triple has no canonical form the registry is left unchanged.
func (r *Registry) Resync(ctx context.Context) error {
	if r.closed {
		return ErrClosed
	}

	triples, err := r.eng.Subscriptions(ctx)
	if err != nil {
		return err
	}

	realm := r.eng.Realm()
	entries := make(map[Key]struct{}, len(triples))
	for _, t := range triples {
		key, err := FromTriple(t).Canonical(realm)
		if err != nil {
			return err
		}
		entries[key] = struct{}{}
	}

	before := len(r.entries)
	r.entries = entries
	r.logger.Debug("resynced subscriptions", "before", before, "after", len(entries))
	return nil
}

// Contains reports whether key, once normalized, is registered.
func (r *Registry) Contains(key Key) bool {
	key, err := key.Canonical(r.eng.Realm())
	if err != nil {
		return false
	}
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of registered subscriptions.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Keys returns the registered keys in sorted order. The slice is a copy.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.compare)
	return keys
}

// Cleanup reports whether Close will cancel all subscriptions.
func (r *Registry) Cleanup() bool {
	return r.cleanup
}

// SetCleanup controls whether Close cancels all subscriptions. Disable it
// when the session is being handed to another process.
func (r *Registry) SetCleanup(cleanup bool) {
	r.cleanup = cleanup
}

// Handoff disables cleanup and returns the engine's session blob, so another
// process can resume the session with lifecycle.WithSession. The engine must
// implement engine.SessionExporter.
func (r *Registry) Handoff(ctx context.Context) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}

	exporter, ok := r.eng.(engine.SessionExporter)
	if !ok {
		return nil, engine.EngineError("dump_session", errors.New("session export not supported"))
	}
	blob, err := exporter.DumpSession(ctx)
	if err != nil {
		return nil, err
	}

	r.cleanup = false
	r.logger.Info("session handed off", "subscriptions", len(r.entries))
	return blob, nil
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	return r.closed
}

// Close tears the registry down. If cleanup is enabled it cancels every
// subscription with one engine call. Only the first call has any effect;
// the registry is closed even if the engine call fails.
func (r *Registry) Close(ctx context.Context) error {
	if r.closed {
		return nil
	}
	r.closed = true

	if !r.cleanup {
		r.logger.Info("registry closed, subscriptions kept", "subscriptions", len(r.entries))
		return nil
	}

	if err := r.eng.CancelSubscriptions(ctx); err != nil {
		r.logger.Warn("cancel on close failed", "error", err)
		return err
	}

	cleared := len(r.entries)
	clear(r.entries)
	r.logger.Info("registry closed, subscriptions cancelled", "cancelled", cleared)
	return nil
}
