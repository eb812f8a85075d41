package log

import (
	"strings"
	"time"
)

// Event is a single captured protocol event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the registry session that produced the event.
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// Op is the engine operation involved.
	Op Op `cbor:"4,keyasint"`

	// Realm is the protocol realm the session was bound to, if known.
	Realm string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload.
	Call        *CallEvent        `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCall indicates a completed engine call.
	CategoryCall Category = 0
	// CategoryState indicates a session state change.
	CategoryState Category = 1
	// CategoryError indicates a failed engine call.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCall:
		return "CALL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(s) {
	case "CALL":
		return CategoryCall, true
	case "STATE":
		return CategoryState, true
	case "ERROR":
		return CategoryError, true
	default:
		return 0, false
	}
}

// Op identifies an engine operation.
type Op uint8

const (
	OpInitialize          Op = 1
	OpOpenPort            Op = 2
	OpLoadSession         Op = 3
	OpCancelSubscriptions Op = 4
	OpSubscribe           Op = 5
	OpUnsubscribe         Op = 6
	OpSubscribeDefaults   Op = 7
	OpSubscriptions       Op = 8
	OpDumpSession         Op = 9
)

var opNames = map[Op]string{
	OpInitialize:          "initialize",
	OpOpenPort:            "open_port",
	OpLoadSession:         "load_session",
	OpCancelSubscriptions: "cancel_subscriptions",
	OpSubscribe:           "subscribe",
	OpUnsubscribe:         "unsubscribe",
	OpSubscribeDefaults:   "subscribe_defaults",
	OpSubscriptions:       "subscriptions",
	OpDumpSession:         "dump_session",
}

// String returns the operation name.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOp parses an operation name as returned by Op.String.
func ParseOp(s string) (Op, bool) {
	s = strings.ToLower(s)
	for op, name := range opNames {
		if name == s {
			return op, true
		}
	}
	return 0, false
}

// CallEvent captures the arguments and result shape of an engine call.
type CallEvent struct {
	// Class, Instance and Recipient are set for subscribe/unsubscribe.
	Class     []byte `cbor:"1,keyasint,omitempty"`
	Instance  []byte `cbor:"2,keyasint,omitempty"`
	Recipient []byte `cbor:"3,keyasint,omitempty"`

	// Count is the number of triples returned by a subscriptions query,
	// or the size of a session blob.
	Count int `cbor:"4,keyasint,omitempty"`

	// Duration is how long the call took. Stored as nanoseconds.
	Duration time.Duration `cbor:"5,keyasint"`
}

// Triple returns the subscription triple in "class,instance,recipient" form,
// or "" when the call had none.
func (c *CallEvent) Triple() string {
	if c == nil || (c.Class == nil && c.Instance == nil && c.Recipient == nil) {
		return ""
	}
	return string(c.Class) + "," + string(c.Instance) + "," + string(c.Recipient)
}

// StateChangeEvent captures session lifecycle transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a failed call.
type ErrorEventData struct {
	// Kind is the error class reported by the engine ("engine error",
	// "protocol error"), empty if unclassified.
	Kind string `cbor:"1,keyasint,omitempty"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`
}
