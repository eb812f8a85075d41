package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zephyr-protocol/zephyr-go/cmd/zsubs/commands"
)

func runLog(args []string) {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch args[0] {
	case "view":
		runView(args[1:])
	case "export":
		runExport(args[1:])
	case "filter":
		runFilter(args[1:])
	case "stats":
		runStats(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown log command: %s\n", args[0])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// logPath returns the single positional argument or exits.
func logPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `zsubs log view - View log file in human-readable format

Usage:
  zsubs log view [flags] <file.zlog>

Flags:
`)
		fs.PrintDefaults()
	}

	session := fs.String("session", "", "Filter by session ID")
	category := fs.String("category", "", "Filter by category (call, state, error)")
	op := fs.String("op", "", "Filter by engine operation (e.g. subscribe)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	filter := commands.ViewFilter{SessionID: *session}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}

	if *op != "" {
		o, err := commands.ParseOpFlag(*op)
		if err != nil {
			fatal(err)
		}
		filter.Op = &o
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `zsubs log export - Export log file to JSONL or CSV format

Usage:
  zsubs log export [flags] <file.zlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `zsubs log filter - Filter log file and write to new file

Usage:
  zsubs log filter [flags] <file.zlog>

Flags:
`)
		fs.PrintDefaults()
	}

	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (call, state, error)")
	fs.StringVar(&opts.Op, "op", "", "Filter by engine operation")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, opts)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `zsubs log stats - Show statistics about the log file

Usage:
  zsubs log stats <file.zlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
