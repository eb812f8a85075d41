package subscription

import (
	"context"
	"sync"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
	"github.com/zephyr-protocol/zephyr-go/pkg/lifecycle"
)

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide Registry, creating it on first use with
// lifecycle.Process as its guard. Once created, later calls return the same
// Registry and ignore eng and opts. A failed creation is not remembered.
func Default(ctx context.Context, eng engine.Engine, opts ...Option) (*Registry, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRegistry != nil {
		return defaultRegistry, nil
	}

	r, err := New(ctx, eng, lifecycle.Process(), opts...)
	if err != nil {
		return nil, err
	}
	defaultRegistry = r
	return r, nil
}
