package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/zephyr-protocol/zephyr-go/cmd/zsubs/interactive"
	"github.com/zephyr-protocol/zephyr-go/pkg/config"
	"github.com/zephyr-protocol/zephyr-go/pkg/lifecycle"
	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

// DefaultRealm is used when neither a flag nor the subscription file names one.
const DefaultRealm = "ATHENA.MIT.EDU"

// runConfig holds the run command configuration.
type runConfig struct {
	ConfigFile  string
	Realm       string
	StateDir    string
	ProtocolLog string
	LogLevel    string
	Defaults    bool
	Keep        bool
	Interactive bool
	Reset       bool
}

// merge fills unset settings from the subscription file. Flags win.
func (c runConfig) merge(f *config.File) runConfig {
	if f != nil {
		if c.Realm == "" {
			c.Realm = f.Realm
		}
		if c.StateDir == "" {
			c.StateDir = f.StateDir
		}
		if c.ProtocolLog == "" {
			c.ProtocolLog = f.ProtocolLog
		}
		c.Defaults = c.Defaults || f.Defaults
	}
	if c.Realm == "" {
		c.Realm = DefaultRealm
	}
	return c
}

func parseRunFlags(args []string) (runConfig, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `zsubs run - Run a subscription session

Usage:
  zsubs run [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	var cfg runConfig
	fs.StringVar(&cfg.ConfigFile, "config", "", "Subscription file path")
	fs.StringVar(&cfg.Realm, "realm", "", "Realm for bare recipients (default \""+DefaultRealm+"\")")
	fs.StringVar(&cfg.StateDir, "state-dir", "", "Directory for session handoff state")
	fs.StringVar(&cfg.ProtocolLog, "protocol-log", "", "Write engine calls to this CBOR log file")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Defaults, "defaults", false, "Subscribe to the server's default set")
	fs.BoolVar(&cfg.Keep, "keep", false, "Keep subscriptions on exit and save the session")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Enable interactive command mode")
	fs.BoolVar(&cfg.Reset, "reset", false, "Clear persisted state before starting")

	if err := fs.Parse(args); err != nil {
		return runConfig{}, err
	}
	if fs.NArg() > 0 {
		return runConfig{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}

// newLogger builds the operational logger at the named level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// switchWriter lets log output move to the shell's writer once it exists.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) Set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// runRun executes the run command and returns the process exit code.
func runRun(args []string) int {
	cfg, err := parseRunFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	var file *config.File
	if cfg.ConfigFile != "" {
		file, err = config.Load(cfg.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	cfg = cfg.merge(file)

	out := &switchWriter{w: os.Stderr}
	logger, err := newLogger(cfg.LogLevel, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := startSession(ctx, cfg, file, lifecycle.Process(), subscription.Default, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}

	var shellDone chan struct{}
	var sh *interactive.Shell
	if cfg.Interactive {
		sh, err = interactive.New(s.reg, s)
		if err != nil {
			logger.Error("failed to start interactive shell", "error", err)
		} else {
			// Log through readline so output does not clobber the prompt.
			out.Set(sh.Stdout())
			shellDone = make(chan struct{})
			go func() {
				defer close(shellDone)
				sh.Run(ctx, cancel)
			}()
		}
	}

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
		// Cancelled by the interactive quit command
	}

	// The registry is not safe for concurrent use; stop the shell first.
	if shellDone != nil {
		_ = sh.Close()
		<-shellDone
		out.Set(os.Stderr)
	}
	cancel()

	logger.Info("shutting down")
	if err := s.finish(context.Background()); err != nil {
		logger.Error("shutdown incomplete", "error", err)
		return 1
	}
	return 0
}
