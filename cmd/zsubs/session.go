package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zephyr-protocol/zephyr-go/pkg/config"
	"github.com/zephyr-protocol/zephyr-go/pkg/engine"
	"github.com/zephyr-protocol/zephyr-go/pkg/lifecycle"
	"github.com/zephyr-protocol/zephyr-go/pkg/log"
	"github.com/zephyr-protocol/zephyr-go/pkg/loopback"
	"github.com/zephyr-protocol/zephyr-go/pkg/persistence"
	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

// acquireFunc obtains the registry once the engine is initialized.
// main uses subscription.Default.
type acquireFunc func(ctx context.Context, eng engine.Engine, opts ...subscription.Option) (*subscription.Registry, error)

// session is a running registry and everything needed to shut it down.
// It implements interactive.SessionInfo.
type session struct {
	cfg    runConfig
	logger *slog.Logger
	guard  *lifecycle.Guard

	server *loopback.Server
	engine *loopback.Engine
	reg    *subscription.Registry

	// nil without a state directory
	sessions *persistence.SessionStore
	servers  *persistence.ServerStateStore

	protoLog *log.FileLogger
}

// Realm implements interactive.SessionInfo.
func (s *session) Realm() string {
	return s.engine.Realm()
}

// Mode implements interactive.SessionInfo.
func (s *session) Mode() lifecycle.Mode {
	return s.guard.Mode()
}

// Port implements interactive.SessionInfo.
func (s *session) Port() uint16 {
	return s.engine.Port()
}

// startSession brings up the server and engine, initializes the engine
// through guard (resuming a saved session when there is one), obtains the
// registry and applies the subscription file.
func startSession(ctx context.Context, cfg runConfig, file *config.File, guard *lifecycle.Guard, acquire acquireFunc, logger *slog.Logger) (*session, error) {
	s := &session{
		cfg:    cfg,
		logger: logger,
		guard:  guard,
		server: loopback.NewServer(loopback.DefaultServerConfig(cfg.Realm)),
	}

	if cfg.StateDir != "" {
		logger.Info("using state directory", "dir", cfg.StateDir)
		s.sessions = persistence.NewSessionStoreInDir(cfg.StateDir)
		s.servers = persistence.NewServerStateStoreInDir(cfg.StateDir)

		if cfg.Reset {
			logger.Info("resetting persisted state")
			if err := errors.Join(s.sessions.Clear(), s.servers.Clear()); err != nil {
				logger.Warn("failed to clear state", "error", err)
			}
		}
		s.restoreServer()
	}

	s.engine = loopback.NewEngine(s.server)
	var eng engine.Engine = s.engine

	if cfg.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return nil, fmt.Errorf("open protocol log: %w", err)
		}
		s.protoLog = fl

		var plog log.Logger = fl
		if logger.Enabled(ctx, slog.LevelDebug) {
			plog = log.NewMultiLogger(fl, log.NewSlogAdapter(logger))
		}
		sessionID := uuid.NewString()
		eng = engine.WithLogger(eng, plog, sessionID)
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLog, "session_id", sessionID)
	}

	if err := s.initEngine(ctx, eng); err != nil {
		s.closeProtocolLog()
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	reg, err := acquire(ctx, eng, subscription.WithLogger(logger))
	if err != nil {
		s.closeProtocolLog()
		return nil, fmt.Errorf("create registry: %w", err)
	}
	s.reg = reg

	if guard.Mode() == lifecycle.ModeResumed {
		if err := reg.Resync(ctx); err != nil {
			logger.Warn("resync after resume failed", "error", err)
		}
	}

	if cfg.Defaults {
		if err := reg.AddDefaults(ctx); err != nil {
			logger.Warn("default subscriptions failed", "error", err)
		}
	}

	if file != nil {
		for _, e := range file.Subscriptions {
			if err := reg.Add(ctx, e.Key); err != nil {
				logger.Warn("subscribe failed", "line", e.Line, "key", e.Key.String(), "error", err)
			}
		}
	}

	if cfg.Keep {
		reg.SetCleanup(false)
	}

	logger.Info("session ready",
		"mode", guard.Mode().String(),
		"realm", s.engine.Realm(),
		"port", s.engine.Port(),
		"subscriptions", reg.Len())
	return s, nil
}

// restoreServer loads the saved port table, if any.
func (s *session) restoreServer() {
	st, err := s.servers.Load()
	if err != nil {
		s.logger.Warn("failed to load server state", "error", err)
		return
	}
	if st == nil {
		return
	}
	if st.Realm != s.cfg.Realm {
		s.logger.Warn("ignoring server state for another realm", "realm", st.Realm)
		return
	}

	snap, err := snapshotFromState(st)
	if err == nil {
		err = s.server.Restore(snap)
	}
	if err != nil {
		s.logger.Warn("failed to restore server state", "error", err)
		return
	}
	s.logger.Debug("server state restored", "ports", len(snap.Ports))
}

// initEngine runs the guard, resuming a saved session when one exists for
// this realm. A session that cannot be resumed is dropped and the engine
// starts fresh.
func (s *session) initEngine(ctx context.Context, eng engine.Engine) error {
	var opts []lifecycle.Option
	if s.sessions != nil {
		st, err := s.sessions.Load()
		switch {
		case err != nil:
			s.logger.Warn("failed to load session state", "error", err)
		case st == nil:
		case st.Realm != s.cfg.Realm:
			s.logger.Warn("ignoring session for another realm", "realm", st.Realm)
		default:
			s.logger.Info("resuming session", "saved_at", st.SavedAt, "subscriptions", len(st.Subscriptions))
			opts = append(opts, lifecycle.WithSession(st.Session))
		}
	}

	err := s.guard.Init(ctx, eng, opts...)
	if err != nil && len(opts) > 0 {
		s.logger.Warn("session resume failed, starting fresh", "error", err)
		if cerr := s.sessions.Clear(); cerr != nil {
			s.logger.Warn("failed to clear session state", "error", cerr)
		}
		err = s.guard.Init(ctx, eng)
	}
	return err
}

// finish hands the session off when cleanup is disabled and a state
// directory is configured, then closes the registry and saves server state.
func (s *session) finish(ctx context.Context) error {
	var errs []error

	keptPort := uint16(0)
	switch {
	case s.reg.Cleanup():
		if s.sessions != nil {
			if err := s.sessions.Clear(); err != nil {
				s.logger.Warn("failed to clear session state", "error", err)
			}
		}

	case s.sessions == nil:
		s.logger.Warn("subscriptions kept without a state directory; the session cannot be resumed")

	default:
		if err := s.handoff(ctx); err != nil {
			s.logger.Error("handoff failed, cancelling subscriptions", "error", err)
			errs = append(errs, err)
			s.reg.SetCleanup(true)
		} else {
			keptPort = s.engine.Port()
		}
	}

	if err := s.reg.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close registry: %w", err))
	}

	if s.servers != nil {
		st := stateFromSnapshot(s.cfg.Realm, s.server.Snapshot(), keptPort)
		if err := s.servers.Save(st); err != nil {
			errs = append(errs, fmt.Errorf("save server state: %w", err))
		}
	}

	s.closeProtocolLog()
	return errors.Join(errs...)
}

func (s *session) handoff(ctx context.Context) error {
	blob, err := s.reg.Handoff(ctx)
	if err != nil {
		return err
	}
	state := &persistence.SessionState{
		Realm:         s.engine.Realm(),
		Session:       blob,
		Subscriptions: persistence.RecordsFromKeys(s.reg.Keys()),
	}
	if err := s.sessions.Save(state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("session saved", "path", s.sessions.Path(), "subscriptions", len(state.Subscriptions))
	return nil
}

func (s *session) closeProtocolLog() {
	if s.protoLog == nil {
		return
	}
	if n := s.protoLog.Dropped(); n > 0 {
		s.logger.Warn("protocol log dropped events", "count", n)
	}
	if err := s.protoLog.Close(); err != nil {
		s.logger.Warn("failed to close protocol log", "error", err)
	}
}
