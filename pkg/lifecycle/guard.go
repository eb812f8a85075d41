package lifecycle

import (
	"context"
	"sync"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
)

// Mode is the way the engine was initialized.
type Mode uint8

const (
	// ModeNone means the engine has not been initialized.
	ModeNone Mode = iota

	// ModeFresh means a new port was opened.
	ModeFresh

	// ModeResumed means an earlier session was loaded.
	ModeResumed
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "NONE"
	case ModeFresh:
		return "FRESH"
	case ModeResumed:
		return "RESUMED"
	default:
		return "UNKNOWN"
	}
}

type initOptions struct {
	session        []byte
	cancelExisting bool
}

// Option configures Init.
type Option func(*initOptions)

// WithSession resumes the session encoded in blob instead of opening a fresh
// port. An empty blob is ignored.
func WithSession(blob []byte) Option {
	return func(o *initOptions) {
		o.session = blob
	}
}

// WithCancelExisting controls whether a fresh port has leftover subscriptions
// cancelled. The default is true. It has no effect when resuming a session.
func WithCancelExisting(cancel bool) Option {
	return func(o *initOptions) {
		o.cancelExisting = cancel
	}
}

// Guard records whether the engine has been initialized.
// It is safe for concurrent use.
type Guard struct {
	mu          sync.Mutex
	initialized bool
	mode        Mode
}

var process Guard

// Process returns the process-wide guard.
func Process() *Guard {
	return &process
}

// Init initializes eng unless the guard is already initialized, in which case
// it returns nil without touching eng. Engine errors are returned unchanged.
func (g *Guard) Init(ctx context.Context, eng engine.Engine, opts ...Option) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.initialized {
		return nil
	}

	o := initOptions{cancelExisting: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := eng.Initialize(ctx); err != nil {
		return err
	}

	mode := ModeFresh
	if len(o.session) > 0 {
		if err := eng.LoadSession(ctx, o.session); err != nil {
			return err
		}
		mode = ModeResumed
	} else {
		if err := eng.OpenPort(ctx); err != nil {
			return err
		}
		if o.cancelExisting {
			if err := eng.CancelSubscriptions(ctx); err != nil {
				return err
			}
		}
	}

	g.mode = mode
	g.initialized = true
	return nil
}

// Initialized reports whether Init has succeeded.
func (g *Guard) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initialized
}

// Mode returns the initialization mode, ModeNone before Init succeeds.
func (g *Guard) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}
