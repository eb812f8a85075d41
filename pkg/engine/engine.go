package engine

import (
	"bytes"
	"context"
)

// Triple is a subscription triple in the byte form the protocol uses.
type Triple struct {
	Class     []byte
	Instance  []byte
	Recipient []byte
}

// NewTriple builds a Triple from string fields.
func NewTriple(class, instance, recipient string) Triple {
	return Triple{
		Class:     []byte(class),
		Instance:  []byte(instance),
		Recipient: []byte(recipient),
	}
}

// Equal reports whether two triples hold the same bytes.
func (t Triple) Equal(o Triple) bool {
	return bytes.Equal(t.Class, o.Class) &&
		bytes.Equal(t.Instance, o.Instance) &&
		bytes.Equal(t.Recipient, o.Recipient)
}

// String returns the triple in the classic "class,instance,recipient" form.
func (t Triple) String() string {
	return string(t.Class) + "," + string(t.Instance) + "," + string(t.Recipient)
}

// Engine is the set of protocol primitives the subscription registry relies on.
// All calls block until the engine has an answer.
type Engine interface {
	// Initialize prepares the engine for use. It is called once per process.
	Initialize(ctx context.Context) error

	// OpenPort allocates a fresh port for this process.
	OpenPort(ctx context.Context) error

	// LoadSession resumes a previously established port and its
	// subscription state from an opaque session blob.
	LoadSession(ctx context.Context, blob []byte) error

	// CancelSubscriptions cancels every subscription on the current port.
	CancelSubscriptions(ctx context.Context) error

	// Subscribe registers a single subscription triple.
	Subscribe(ctx context.Context, t Triple) error

	// Unsubscribe cancels a single subscription triple.
	Unsubscribe(ctx context.Context, t Triple) error

	// SubscribeDefaults subscribes to the engine's default set. Which triples
	// were added is not reported; use Subscriptions to find out.
	SubscribeDefaults(ctx context.Context) error

	// Subscriptions returns the authoritative subscription list of the port.
	Subscriptions(ctx context.Context) ([]Triple, error)

	// Realm returns the protocol domain used to qualify bare recipients.
	Realm() string
}

// SessionExporter is implemented by engines that can serialize their current
// session so another process can resume it with LoadSession.
type SessionExporter interface {
	DumpSession(ctx context.Context) ([]byte, error)
}
