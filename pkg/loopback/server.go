package loopback

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
)

// Default server limits.
const (
	DefaultSessionTTL = 24 * time.Hour
	DefaultMaxPorts   = 1024
)

// ServerConfig holds loopback server configuration.
type ServerConfig struct {
	// Realm is reported to engines and stamped into session blobs.
	Realm string

	// Defaults is the subscription set added by SubscribeDefaults.
	Defaults []engine.Triple

	// SessionTTL is how long a dumped session stays loadable.
	SessionTTL time.Duration

	// MaxPorts caps the number of ports the server hands out.
	MaxPorts int
}

// DefaultServerConfig returns a configuration for realm whose default set is
// personal messages to anyone in the realm.
func DefaultServerConfig(realm string) ServerConfig {
	return ServerConfig{
		Realm: realm,
		Defaults: []engine.Triple{
			engine.NewTriple("message", "personal", "@"+realm),
		},
		SessionTTL: DefaultSessionTTL,
		MaxPorts:   DefaultMaxPorts,
	}
}

// RejectFunc decides whether the server refuses op ("subscribe" or
// "unsubscribe") for t. A non-nil error is returned to the engine as a
// protocol error.
type RejectFunc func(op string, t engine.Triple) error

type port struct {
	sessionID uuid.UUID
	subs      []engine.Triple
}

// Server is the authoritative subscription store. It is safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	config   ServerConfig
	ports    map[uint16]*port
	nextPort uint16
	reject   RejectFunc
	now      func() time.Time
}

// NewServer creates a server. Zero SessionTTL and MaxPorts take the defaults.
func NewServer(config ServerConfig) *Server {
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	if config.MaxPorts <= 0 || config.MaxPorts > 0xffff {
		config.MaxPorts = DefaultMaxPorts
	}
	return &Server{
		config: config,
		ports:  make(map[uint16]*port),
		now:    time.Now,
	}
}

// Realm returns the server's realm.
func (s *Server) Realm() string {
	return s.config.Realm
}

// Reject installs fn as the fault hook. Pass nil to remove it.
func (s *Server) Reject(fn RejectFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = fn
}

// SetClock replaces the server's time source.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// PortCount returns the number of allocated ports.
func (s *Server) PortCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ports)
}

// Subscriptions returns a copy of the subscription list held for p.
func (s *Server) Subscriptions(p uint16) []engine.Triple {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.ports[p]
	if !ok {
		return nil
	}
	return slices.Clone(pt.subs)
}

// openPort allocates the next free port for a new session.
func (s *Server) openPort() (uint16, uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ports) >= s.config.MaxPorts {
		return 0, uuid.Nil, ErrPortsExhausted
	}
	for {
		s.nextPort++
		if s.nextPort == 0 {
			s.nextPort = 1
		}
		if _, taken := s.ports[s.nextPort]; !taken {
			break
		}
	}

	id := uuid.New()
	s.ports[s.nextPort] = &port{sessionID: id}
	return s.nextPort, id, nil
}

// attach validates that session id still owns p.
func (s *Server) attach(p uint16, id uuid.UUID, issuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Sub(issuedAt) > s.config.SessionTTL {
		return ErrSessionExpired
	}
	pt, ok := s.ports[p]
	if !ok || pt.sessionID != id {
		return ErrUnknownSession
	}
	return nil
}

func (s *Server) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func (s *Server) subscribe(p uint16, t engine.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.ports[p]
	if !ok {
		return ErrNoPort
	}
	if s.reject != nil {
		if err := s.reject("subscribe", t); err != nil {
			return err
		}
	}
	if indexOf(pt.subs, t) < 0 {
		pt.subs = append(pt.subs, cloneTriple(t))
	}
	return nil
}

func (s *Server) unsubscribe(p uint16, t engine.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.ports[p]
	if !ok {
		return ErrNoPort
	}
	if s.reject != nil {
		if err := s.reject("unsubscribe", t); err != nil {
			return err
		}
	}
	i := indexOf(pt.subs, t)
	if i < 0 {
		return ErrNotSubscribed
	}
	pt.subs = slices.Delete(pt.subs, i, i+1)
	return nil
}

func (s *Server) cancel(p uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.ports[p]
	if !ok {
		return ErrNoPort
	}
	pt.subs = nil
	return nil
}

func (s *Server) subscribeDefaults(p uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.ports[p]
	if !ok {
		return ErrNoPort
	}
	for _, t := range s.config.Defaults {
		if indexOf(pt.subs, t) < 0 {
			pt.subs = append(pt.subs, t)
		}
	}
	return nil
}

func (s *Server) list(p uint16) ([]engine.Triple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.ports[p]
	if !ok {
		return nil, ErrNoPort
	}
	return slices.Clone(pt.subs), nil
}

func indexOf(subs []engine.Triple, t engine.Triple) int {
	return slices.IndexFunc(subs, t.Equal)
}

func cloneTriple(t engine.Triple) engine.Triple {
	return engine.Triple{
		Class:     slices.Clone(t.Class),
		Instance:  slices.Clone(t.Instance),
		Recipient: slices.Clone(t.Recipient),
	}
}

// PortSnapshot is the saved state of one port.
type PortSnapshot struct {
	Port          uint16
	SessionID     uuid.UUID
	Subscriptions []engine.Triple
}

// Snapshot is the saved state of a server's port table.
type Snapshot struct {
	NextPort uint16
	Ports    []PortSnapshot
}

// Snapshot returns a copy of the port table, ordered by port.
func (s *Server) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{NextPort: s.nextPort}
	for p, pt := range s.ports {
		subs := make([]engine.Triple, len(pt.subs))
		for i, t := range pt.subs {
			subs[i] = cloneTriple(t)
		}
		snap.Ports = append(snap.Ports, PortSnapshot{Port: p, SessionID: pt.sessionID, Subscriptions: subs})
	}
	slices.SortFunc(snap.Ports, func(a, b PortSnapshot) int {
		return int(a.Port) - int(b.Port)
	})
	return snap
}

// Restore replaces the port table with snap. Port 0 and duplicate ports are
// rejected and leave the server unchanged.
func (s *Server) Restore(snap Snapshot) error {
	ports := make(map[uint16]*port, len(snap.Ports))
	for _, ps := range snap.Ports {
		if ps.Port == 0 {
			return fmt.Errorf("restore: %w: port 0", ErrInvalidSnapshot)
		}
		if _, dup := ports[ps.Port]; dup {
			return fmt.Errorf("restore: %w: duplicate port %d", ErrInvalidSnapshot, ps.Port)
		}
		pt := &port{sessionID: ps.SessionID}
		for _, t := range ps.Subscriptions {
			if indexOf(pt.subs, t) < 0 {
				pt.subs = append(pt.subs, cloneTriple(t))
			}
		}
		ports[ps.Port] = pt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports = ports
	s.nextPort = snap.NextPort
	return nil
}
