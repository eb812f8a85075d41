package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// StateFileName is the file SessionStore uses inside a state directory.
const StateFileName = "session.json"

// ErrUnsupportedVersion is returned by Load for state files written by a
// newer format.
var ErrUnsupportedVersion = errors.New("unsupported state file version")

// SessionState is the handoff record written by a process that keeps its
// subscriptions alive.
type SessionState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Realm is the realm the session was issued for.
	Realm string `json:"realm"`

	// Session is the engine's serialized session. JSON encodes it as base64.
	Session []byte `json:"session"`

	// Subscriptions is the local subscription set at the time of handoff.
	Subscriptions []SubscriptionRecord `json:"subscriptions,omitempty"`
}

// SubscriptionRecord is one subscription key in the snapshot. Key fields are
// arbitrary bytes, so they are stored as base64 rather than JSON strings.
type SubscriptionRecord struct {
	Class     []byte `json:"class"`
	Instance  []byte `json:"instance"`
	Recipient []byte `json:"recipient"`
}

// RecordFromKey converts a key to a snapshot record.
func RecordFromKey(k subscription.Key) SubscriptionRecord {
	class, instance, recipient := k.Fields()
	return SubscriptionRecord{Class: class, Instance: instance, Recipient: recipient}
}

// Key converts the record back to a subscription key.
func (r SubscriptionRecord) Key() subscription.Key {
	return subscription.KeyOf(r.Class, r.Instance, r.Recipient)
}

// RecordsFromKeys converts keys to snapshot records, preserving order.
func RecordsFromKeys(keys []subscription.Key) []SubscriptionRecord {
	if len(keys) == 0 {
		return nil
	}
	out := make([]SubscriptionRecord, len(keys))
	for i, k := range keys {
		out[i] = RecordFromKey(k)
	}
	return out
}

// Keys converts the snapshot back to subscription keys.
func (s *SessionState) Keys() []subscription.Key {
	if len(s.Subscriptions) == 0 {
		return nil
	}
	out := make([]subscription.Key, len(s.Subscriptions))
	for i, r := range s.Subscriptions {
		out[i] = r.Key()
	}
	return out
}

// SessionStore manages persistence of session state to a JSON file.
type SessionStore struct {
	mu   sync.Mutex
	path string
}

// NewSessionStore creates a store backed by the file at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// NewSessionStoreInDir creates a store for StateFileName inside dir.
func NewSessionStoreInDir(dir string) *SessionStore {
	return NewSessionStore(filepath.Join(dir, StateFileName))
}

// Path returns the backing file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Save persists the session state to disk.
func (s *SessionStore) Save(state *SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// The blob grants control of a live port, so keep it private.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the session state from disk.
// Returns nil, nil if the file doesn't exist (nothing to resume).
func (s *SessionStore) Load() (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &SessionState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, state.Version)
	}

	return state, nil
}

// Clear removes the state file.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
