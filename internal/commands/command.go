// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsSession returns true if the command reads or changes the task list.
	NeedsSession() bool

	// NeedsAuth returns true if the command talks to Google Tasks.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// env.Session is nil if NeedsSession() returns false; env.Remote is nil
	// if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int
}

// Env carries the resources a command runs against.
type Env struct {
	// Session is the open task list.
	Session *session.Session

	// Remote is the Google Tasks backend.
	Remote service.Service

	// Stdin is read by interactive commands.
	Stdin io.Reader

	// Exec runs another command line against the same session.
	Exec func(ctx context.Context, args []string, out, errOut io.Writer) int
}

// info prints an informational line unless quiet mode is on.
func info(cfg *config.Config, out io.Writer, format string, args ...any) {
	if !cfg.Quiet {
		fmt.Fprintf(out, format+"\n", args...)
	}
}

// finish reports the outcome of a session action. A save failure still
// prints msg, since the change was applied, then warns and exits with
// BackendError.
func finish(cfg *config.Config, err error, out, errOut io.Writer, format string, args ...any) int {
	var pe *session.PersistError
	switch {
	case err == nil:
		info(cfg, out, format, args...)
		return exitcode.Success
	case errors.As(err, &pe):
		info(cfg, out, format, args...)
		fmt.Fprintf(errOut, "warning: not saved: %v\n", pe.Err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
}

// noFlags is embedded by commands without flags of their own.
type noFlags struct{}

func (noFlags) RegisterFlags(fs *flag.FlagSet) {}
