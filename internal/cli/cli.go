package cli

import (
	"flag"
	"io"
)

// CLIArgs are the command-line arguments for a server run. Keep this small
// for now and add fields as modules need them.
type CLIArgs struct {
	// ConfigPath points at an optional YAML config file; empty means defaults.
	ConfigPath string

	// ListenAddr overrides the configured HTTP listen address when non-empty.
	ListenAddr string

	// DBPath overrides the configured SQLite database path when non-empty.
	DBPath string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("alttext-audit", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to YAML config file (optional)")
		listenAddr = fs.String("addr", "", "HTTP listen address override (e.g. :8080)")
		dbPath     = fs.String("db", "", "SQLite database path override")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &CLIArgs{
		ConfigPath: *configPath,
		ListenAddr: *listenAddr,
		DBPath:     *dbPath,
		RawArgs:    args,
	}, nil
}
