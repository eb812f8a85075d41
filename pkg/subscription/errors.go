package subscription

import "errors"

// Registry errors.
var (
	// ErrInvalidKey is returned for input that is not a subscription triple.
	ErrInvalidKey = errors.New("not a subscription triple")

	// ErrNotSubscribed is returned by Remove for a key that is not registered.
	ErrNotSubscribed = errors.New("not subscribed")

	// ErrClosed is returned by mutating calls after Close.
	ErrClosed = errors.New("registry is closed")
)
