package engine

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these to classify engine failures.
var (
	// ErrEngine covers engine setup, port allocation and session loading.
	ErrEngine = errors.New("engine error")

	// ErrProtocol covers transport failures and server rejections.
	ErrProtocol = errors.New("protocol error")
)

// Error is a failure reported by an engine operation.
type Error struct {
	// Op is the engine operation that failed (e.g. "subscribe").
	Op string

	// Kind is ErrEngine or ErrProtocol.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind, so errors.Is(err, ErrProtocol) works on *Error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// EngineError returns an *Error of kind ErrEngine.
func EngineError(op string, err error) error {
	return &Error{Op: op, Kind: ErrEngine, Err: err}
}

// ProtocolError returns an *Error of kind ErrProtocol.
func ProtocolError(op string, err error) error {
	return &Error{Op: op, Kind: ErrProtocol, Err: err}
}
