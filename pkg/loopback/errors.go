package loopback

import "errors"

// Loopback errors. Engine methods return them wrapped in *engine.Error.
var (
	ErrNotInitialized   = errors.New("engine not initialized")
	ErrNoPort           = errors.New("no port open")
	ErrPortsExhausted   = errors.New("no free ports")
	ErrMalformedSession = errors.New("malformed session data")
	ErrSessionExpired   = errors.New("session expired")
	ErrUnknownSession   = errors.New("unknown session")
	ErrRealmMismatch    = errors.New("session belongs to another realm")
	ErrNotSubscribed    = errors.New("no such subscription")
	ErrInvalidSnapshot  = errors.New("invalid server snapshot")
)
