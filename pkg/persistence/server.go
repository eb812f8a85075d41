package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ServerStateFileName is the file ServerStateStore uses inside a state
// directory.
const ServerStateFileName = "server.json"

// ServerState is the saved port table of a loopback server, kept so a
// resumed session finds its port on the next run.
type ServerState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Realm is the server realm.
	Realm string `json:"realm"`

	// NextPort is the last port number handed out.
	NextPort uint16 `json:"next_port"`

	// Ports lists the allocated ports.
	Ports []PortRecord `json:"ports,omitempty"`
}

// PortRecord is one allocated port.
type PortRecord struct {
	Port          uint16               `json:"port"`
	SessionID     string               `json:"session_id"`
	Subscriptions []SubscriptionRecord `json:"subscriptions,omitempty"`
}

// ServerStateStore manages persistence of server state to a JSON file.
type ServerStateStore struct {
	mu   sync.Mutex
	path string
}

// NewServerStateStore creates a store backed by the file at path.
func NewServerStateStore(path string) *ServerStateStore {
	return &ServerStateStore{path: path}
}

// NewServerStateStoreInDir creates a store for ServerStateFileName inside dir.
func NewServerStateStoreInDir(dir string) *ServerStateStore {
	return NewServerStateStore(filepath.Join(dir, ServerStateFileName))
}

// Save persists the server state to disk.
func (s *ServerStateStore) Save(state *ServerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the server state from disk.
// Returns nil, nil if the file doesn't exist.
func (s *ServerStateStore) Load() (*ServerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &ServerState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, state.Version)
	}

	return state, nil
}

// Clear removes the state file.
func (s *ServerStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
