// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/output"
	"github.com/nibzard/tasklist/internal/store"
	"github.com/nibzard/tasklist/internal/tasks"
	"github.com/nibzard/tasklist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	// ErrUsage marks command-line usage errors.
	ErrUsage = errors.New("usage error")
	// ErrReported marks errors already shown to the user.
	ErrReported = errors.New("already reported")
)

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, config.ErrInvalidFlags) {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	// With no subcommand, a terminal gets the TUI and anything else a listing.
	subcommand := "list"
	if ui.IsTTY(stdout) {
		subcommand = "tui"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "rm", "remove":
		return a.rmCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, subcommand)
	}
}

// newFlagSet returns a subcommand flag set that reports to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasklist "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

// logger builds the logger for a subcommand. Interactive sessions never log
// to the terminal; they use the configured file or discard.
func (a *app) logger(interactive bool) (*log.Logger, io.Closer, error) {
	opts := logging.OptionsFromStrings(a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)
	if a.cfg.LogFile != "" {
		f, err := logging.OpenFile(a.cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		return logging.New(f, opts), f, nil
	}
	if interactive {
		return logging.Discard(), nopCloser{}, nil
	}
	return logging.New(a.stderr, opts), nopCloser{}, nil
}

// session opens the store and returns a hydrated controller with the
// closer that releases the store.
func (a *app) session(logger *log.Logger, alerter tasks.Alerter) (*tasks.Controller, io.Closer, error) {
	s, closer, err := store.Open(a.cfg.StoreOptions())
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened store", "backend", a.cfg.StoreBackend, "path", a.cfg.StorePath, "key", a.cfg.StoreKey)

	ctl := tasks.New(s, alerter, tasks.WithLogger(logger))
	if err := ctl.Initialize(); err != nil {
		closer.Close()
		return nil, nil, err
	}
	return ctl, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// stderrAlerter prints alerts for the non-interactive commands.
func (a *app) stderrAlerter() tasks.Alerter {
	return tasks.AlerterFunc(func(message string) {
		fmt.Fprintln(a.stderr, message)
	})
}

// withSession runs fn over a hydrated controller and releases everything
// afterwards.
func (a *app) withSession(fn func(ctl *tasks.Controller) error) error {
	logger, logCloser, err := a.logger(false)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctl, closer, err := a.session(logger, a.stderrAlerter())
	if err != nil {
		return err
	}
	defer closer.Close()

	return fn(ctl)
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	logger, logCloser, err := a.logger(true)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	s, closer, err := store.Open(a.cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer closer.Close()

	name := a.cfg.StorePath
	if name == "" {
		name = a.cfg.StoreBackend
	}
	return ui.RunTUI(ctx, s, ui.WithLogger(logger), ui.WithStoreName(name))
}

// addCommand submits the joined arguments as one task.
func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")

	return a.withSession(func(ctl *tasks.Controller) error {
		row, err := ctl.SubmitFromUser(text)
		if errors.Is(err, tasks.ErrEmptyTask) {
			return fmt.Errorf("%w: %w", ErrReported, err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Added: %s\n", row.Text())
		return nil
	})
}

// listCommand prints the visible rows.
func (a *app) listCommand(args []string) error {
	fs := a.newFlagSet("list")
	format := fs.String("format", "text", "Output format (text|json|yaml)")
	fs.StringVar(format, "f", "text", "Output format (shorthand)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}
	f, err := output.ParseFormat(*format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return a.withSession(func(ctl *tasks.Controller) error {
		return output.Write(a.stdout, f, ctl.Texts())
	})
}

// rmCommand removes the n-th visible row, counting from 1.
func (a *app) rmCommand(args []string) error {
	fs := a.newFlagSet("rm")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: rm takes exactly one task number", ErrUsage)
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 1 {
		return fmt.Errorf("%w: invalid task number %q", ErrUsage, fs.Arg(0))
	}

	return a.withSession(func(ctl *tasks.Controller) error {
		rows := ctl.Rows()
		if n > len(rows) {
			return fmt.Errorf("no task number %d (have %d)", n, len(rows))
		}
		row := rows[n-1]
		if err := ctl.Remove(row.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed: %s\n", row.Text())
		return nil
	})
}

// configCommand prints the effective config, or an example with --example.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *example {
		_, err := io.WriteString(a.stdout, config.ExampleConfig())
		return err
	}

	for _, file := range a.cfg.Files {
		fmt.Fprintf(a.stdout, "# loaded from %s\n", file)
	}
	return a.cfg.WriteTOML(a.stdout)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasklist %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a minimal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui             Launch the terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  add <text...>   Add a task")
	fmt.Fprintln(w, "  list, ls        List tasks (default otherwise)")
	fmt.Fprintln(w, "  rm <n>          Remove the n-th task")
	fmt.Fprintln(w, "  config          Print the effective configuration")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (text|json|yaml) (default \"text\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
