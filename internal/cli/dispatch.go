package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// SessionFactory opens the task list session for a command.
type SessionFactory func(ctx context.Context, cfg *config.Config) (*session.Session, error)

// RemoteFactory creates the Google Tasks service from config.
// Used to inject the backend during dispatch.
type RemoteFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	sessions SessionFactory
	remote   RemoteFactory
	stdin    io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// A nil remote factory makes auth commands stop after checking for credentials.
func NewDispatcher(registry *commands.Registry, sessions SessionFactory, remote RemoteFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		sessions: sessions,
		remote:   remote,
		stdin:    os.Stdin,
	}
}

// SetStdin replaces the reader interactive commands read from.
func (d *Dispatcher) SetStdin(r io.Reader) { d.stdin = r }

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	return d.run(ctx, args, &commands.Env{Stdin: d.stdin}, out, errOut)
}

func (d *Dispatcher) run(ctx context.Context, args []string, env *commands.Env, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], *env, out, errOut)
}

// dispatchCommand runs cmd with a copy of env. A session already in env
// (inside the shell) is reused; otherwise one is opened and closed here.
func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, env commands.Env, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument: ") {
			flagName := strings.TrimPrefix(errStr, "flag needs an argument: ")
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined: ") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.Log = NewLogger(errOut, debug)

	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Log.V(1).Info("dispatch", "command", cmd.Name(), "configDir", cfg.Dir, "backend", cfg.Storage.Backend)

	if cmd.NeedsSession() && env.Session == nil {
		if d.sessions == nil {
			fmt.Fprintln(errOut, "error: storage error: no task storage configured")
			return exitcode.BackendError
		}
		s, err := d.sessions(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %s\n", err)
			return exitcode.BackendError
		}
		defer func() {
			if err := s.Close(); err != nil {
				cfg.Log.Error(err, "close storage")
			}
		}()
		env.Session = s
	}

	// Check auth requirements
	if cmd.NeedsAuth() && env.Remote == nil {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
			return exitcode.AuthError
		}
		if d.remote == nil {
			fmt.Fprintln(errOut, "error: backend error: no remote service configured")
			return exitcode.BackendError
		}
		svc, err := d.remote(ctx, cfg)
		if err != nil {
			// Check if it's an auth error
			if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "oauth") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		env.Remote = svc
	}

	env.Exec = func(ctx context.Context, args []string, out, errOut io.Writer) int {
		return d.run(ctx, inheritFlags(cfg, args), &env, out, errOut)
	}

	return cmd.Run(ctx, cfg, &env, positionalArgs, out, errOut)
}

// inheritFlags passes the common flags of the running command on to a
// command line run inside it. Flags given on that line still win.
func inheritFlags(cfg *config.Config, args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := []string{args[0], "--config", cfg.Dir}
	if cfg.Quiet {
		out = append(out, "--quiet")
	}
	if cfg.Debug {
		out = append(out, "--debug")
	}
	return append(out, args[1:]...)
}
