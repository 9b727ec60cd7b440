package config

import (
	"errors"
	"flag"
	"fmt"
)

// ErrInvalidFlags wraps command-line parse failures.
var ErrInvalidFlags = errors.New("invalid flags")

// parseFlags defines the global flags on fs and parses args.
// Flag defaults are the values loaded so far, so unset flags keep them.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.StoreBackend, "backend", cfg.StoreBackend, "Store backend (file|sqlite|memory)")
	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "Path to the storage document or database")
	fs.StringVar(&cfg.StoreKey, "key", cfg.StoreKey, "Slot key holding the task list")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlags, err)
	}
	return nil
}
