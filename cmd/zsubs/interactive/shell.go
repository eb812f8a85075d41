// Package interactive provides the interactive command-line interface
// for zsubs.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/zephyr-protocol/zephyr-go/pkg/lifecycle"
	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

// SessionInfo provides read-only session details for the status command.
// This interface allows the shell to report on the engine without depending
// on the main package's wiring.
type SessionInfo interface {
	// Realm returns the engine realm.
	Realm() string

	// Mode returns how the engine was initialized.
	Mode() lifecycle.Mode

	// Port returns the engine port, 0 if none.
	Port() uint16
}

// Shell handles interactive mode for zsubs.
type Shell struct {
	reg  *subscription.Registry
	info SessionInfo
	rl   *readline.Instance
	out  io.Writer
}

// New creates a new interactive shell for reg.
func New(reg *subscription.Registry, info SessionInfo) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "zsubs> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		reg:  reg,
		info: info,
		rl:   rl,
		out:  rl.Stdout(),
	}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("add"),
	readline.PcItem("remove"),
	readline.PcItem("discard"),
	readline.PcItem("list"),
	readline.PcItem("resync"),
	readline.PcItem("defaults"),
	readline.PcItem("clear"),
	readline.PcItem("cleanup", readline.PcItem("on"), readline.PcItem("off")),
	readline.PcItem("status"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Close stops a running shell by closing its input.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run starts the interactive command loop. It returns when the user quits,
// input ends or ctx is cancelled; cancel is called in the first two cases.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Exec(ctx, line) {
			cancel()
			return
		}
	}
}

// Exec runs a single command line. It returns false when the line asks the
// shell to exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "add", "sub":
		s.cmdAdd(ctx, args)

	case "remove", "rm", "unsub":
		s.cmdRemove(ctx, args)

	case "discard":
		s.cmdDiscard(ctx, args)

	case "list", "ls":
		s.cmdList()

	case "resync":
		s.cmdResync(ctx)

	case "defaults":
		s.cmdDefaults(ctx)

	case "clear":
		s.cmdClear(ctx)

	case "cleanup":
		s.cmdCleanup(args)

	case "status":
		s.cmdStatus()

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Subscription Commands:
  add <class> <instance> <recipient>    - Subscribe (or add class,instance,recipient)
  remove <class> <instance> <recipient> - Unsubscribe, error if not subscribed
  discard <class> <instance> <recipient> - Unsubscribe if subscribed
  list                                  - List local subscriptions
  resync                                - Replace local set with the server's list
  defaults                              - Subscribe to the server's defaults
  clear                                 - Cancel every subscription

  Session:
    cleanup [on|off]                    - Show or set cancel-on-exit
    status                              - Show session status

  General:
    help                                - Show this help
    quit                                - Exit

  Recipient "*" means every recipient in the realm; a bare name gets the
  realm appended.`)
}

// parseKeyArgs accepts either three fields or one comma-separated triple.
func parseKeyArgs(args []string) (subscription.Key, error) {
	switch len(args) {
	case 1:
		return subscription.ParseKey(args[0])
	default:
		return subscription.KeyFromFields(args)
	}
}

func (s *Shell) keyArg(cmd string, args []string) (subscription.Key, bool) {
	key, err := parseKeyArgs(args)
	if err != nil {
		fmt.Fprintf(s.out, "Usage: %s <class> <instance> <recipient>\n", cmd)
		return subscription.Key{}, false
	}
	return key, true
}

func (s *Shell) cmdAdd(ctx context.Context, args []string) {
	key, ok := s.keyArg("add", args)
	if !ok {
		return
	}
	if err := s.reg.Add(ctx, key); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Subscribed to %s\n", s.reg.Normalize(key))
}

func (s *Shell) cmdRemove(ctx context.Context, args []string) {
	key, ok := s.keyArg("remove", args)
	if !ok {
		return
	}
	err := s.reg.Remove(ctx, key)
	switch {
	case errors.Is(err, subscription.ErrNotSubscribed):
		fmt.Fprintf(s.out, "Not subscribed to %s\n", s.reg.Normalize(key))
	case err != nil:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Unsubscribed from %s\n", s.reg.Normalize(key))
	}
}

func (s *Shell) cmdDiscard(ctx context.Context, args []string) {
	key, ok := s.keyArg("discard", args)
	if !ok {
		return
	}
	if err := s.reg.Discard(ctx, key); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Discarded %s\n", s.reg.Normalize(key))
}

func (s *Shell) cmdList() {
	keys := s.reg.Keys()
	if len(keys) == 0 {
		fmt.Fprintln(s.out, "No subscriptions")
		return
	}
	fmt.Fprintf(s.out, "Subscriptions (%d):\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(s.out, "  %-20s %-20s %s\n", k.Class, k.Instance, k.Recipient)
	}
}

func (s *Shell) cmdResync(ctx context.Context) {
	before := s.reg.Len()
	if err := s.reg.Resync(ctx); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Resynced: %d -> %d subscriptions\n", before, s.reg.Len())
}

func (s *Shell) cmdDefaults(ctx context.Context) {
	before := s.reg.Len()
	if err := s.reg.AddDefaults(ctx); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Defaults added: %d -> %d subscriptions\n", before, s.reg.Len())
}

func (s *Shell) cmdClear(ctx context.Context) {
	n := s.reg.Len()
	if err := s.reg.Clear(ctx); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Cancelled %d subscriptions\n", n)
}

func (s *Shell) cmdCleanup(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Cleanup on exit: %s\n", onOff(s.reg.Cleanup()))
		return
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		s.reg.SetCleanup(true)
	case "off", "false", "no":
		s.reg.SetCleanup(false)
	default:
		fmt.Fprintln(s.out, "Usage: cleanup [on|off]")
		return
	}
	fmt.Fprintf(s.out, "Cleanup on exit: %s\n", onOff(s.reg.Cleanup()))
}

func (s *Shell) cmdStatus() {
	fmt.Fprintln(s.out, "Session Status:")
	if s.info != nil {
		fmt.Fprintf(s.out, "  Realm:         %s\n", s.info.Realm())
		fmt.Fprintf(s.out, "  Mode:          %s\n", s.info.Mode())
		fmt.Fprintf(s.out, "  Port:          %d\n", s.info.Port())
	}
	fmt.Fprintf(s.out, "  Subscriptions: %d\n", s.reg.Len())
	fmt.Fprintf(s.out, "  Cleanup:       %s\n", onOff(s.reg.Cleanup()))
	fmt.Fprintf(s.out, "  Closed:        %t\n", s.reg.Closed())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
