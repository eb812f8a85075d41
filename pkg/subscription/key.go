package subscription

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
)

const (
	// WildcardMarker may prefix a recipient; it is dropped on normalization.
	WildcardMarker = "*"

	// DomainSeparator separates a recipient's name from its realm.
	DomainSeparator = "@"
)

// Key is a subscription triple. Fields hold raw bytes; a Go string is used so
// keys are comparable.
type Key struct {
	Class     string
	Instance  string
	Recipient string
}

// KeyOf builds a Key from text or byte fields.
func KeyOf[T ~string | ~[]byte](class, instance, recipient T) Key {
	return Key{
		Class:     string(class),
		Instance:  string(instance),
		Recipient: string(recipient),
	}
}

// KeyFromFields builds a Key from exactly three fields.
func KeyFromFields[T ~string | ~[]byte](fields []T) (Key, error) {
	if len(fields) != 3 {
		return Key{}, fmt.Errorf("%w: got %d fields, want 3", ErrInvalidKey, len(fields))
	}
	return KeyOf(fields[0], fields[1], fields[2]), nil
}

// ParseKey parses the "class,instance,recipient" form used by subscription
// files. Surrounding whitespace on each field is ignored.
func ParseKey(s string) (Key, error) {
	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	k, err := KeyFromFields(fields)
	if err != nil {
		return Key{}, fmt.Errorf("%q: %w", s, err)
	}
	return k, nil
}

// FromTriple converts an engine triple to a Key.
func FromTriple(t engine.Triple) Key {
	return KeyOf(t.Class, t.Instance, t.Recipient)
}

// Normalize returns the canonical form of k: one leading wildcard marker is
// removed from the recipient, and realm is appended when the recipient has no
// domain separator.
func (k Key) Normalize(realm string) Key {
	recipient := strings.TrimPrefix(k.Recipient, WildcardMarker)
	if !strings.Contains(recipient, DomainSeparator) {
		recipient += DomainSeparator + realm
	}
	return Key{Class: k.Class, Instance: k.Instance, Recipient: recipient}
}

// Canonical normalizes k and checks the stored form: after one marker is
// removed the recipient must not start with WildcardMarker, since a second
// pass would strip it again and the key would no longer match itself.
func (k Key) Canonical(realm string) (Key, error) {
	n := k.Normalize(realm)
	if strings.HasPrefix(n.Recipient, WildcardMarker) {
		return Key{}, fmt.Errorf("%w: recipient %q has more than one leading %q", ErrInvalidKey, k.Recipient, WildcardMarker)
	}
	return n, nil
}

// Fields returns the three fields as byte slices.
func (k Key) Fields() (class, instance, recipient []byte) {
	return []byte(k.Class), []byte(k.Instance), []byte(k.Recipient)
}

// Triple converts k to the engine's byte form.
func (k Key) Triple() engine.Triple {
	c, i, r := k.Fields()
	return engine.Triple{Class: c, Instance: i, Recipient: r}
}

// String returns k in "class,instance,recipient" form.
func (k Key) String() string {
	return k.Class + "," + k.Instance + "," + k.Recipient
}

// compare orders keys by class, instance, then recipient.
func (k Key) compare(o Key) int {
	return cmp.Or(
		strings.Compare(k.Class, o.Class),
		strings.Compare(k.Instance, o.Instance),
		strings.Compare(k.Recipient, o.Recipient),
	)
}
