// Command zsubs manages a process's protocol subscriptions.
//
// The run command initializes an engine against an in-process loopback
// server, applies a subscription file and keeps the subscriptions until it
// exits. On exit it either cancels them or, with -keep, hands the session to
// the next run through the state directory.
//
// Usage:
//
//	zsubs run [flags]
//	zsubs log <command> [flags] <file.zlog>
//
// Examples:
//
//	# Subscribe from a file and tear down on exit
//	zsubs run -config .zsubs.yaml
//
//	# Keep subscriptions alive across runs
//	zsubs run -config .zsubs.yaml -state-dir ~/.zsubs -keep
//
//	# Interactive shell with a protocol log
//	zsubs run -interactive -protocol-log zsubs.zlog
//
//	# Show engine calls from a protocol log
//	zsubs log view -category call zsubs.zlog
//
// Interactive Commands:
//
//	add <class> <instance> <recipient>     - Subscribe
//	remove <class> <instance> <recipient>  - Unsubscribe
//	discard <class> <instance> <recipient> - Unsubscribe if subscribed
//	list        - List subscriptions
//	resync      - Reload subscriptions from the server
//	defaults    - Subscribe to the server's defaults
//	clear       - Cancel every subscription
//	cleanup     - Show or set cancel-on-exit
//	status      - Show session status
//	quit        - Exit
package main

import (
	"fmt"
	"os"
)

const usage = `zsubs - protocol subscription manager

Usage:
  zsubs run [flags]                     Run a subscription session
  zsubs log <command> [flags] <file>    Inspect a protocol log

Log commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "zsubs run -help" or "zsubs log <command> -help" for flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "run":
		os.Exit(runRun(args))
	case "log":
		runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}
