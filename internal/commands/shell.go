package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/shlex"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

// Prompt is printed before each shell line unless quiet.
const Prompt = "taskdeck> "

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the shell command: an interactive loop over one
// session, so undo and redo reach back across commands.
type ShellCmd struct{ noFlags }

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return []string{"repl"} }
func (c *ShellCmd) Synopsis() string   { return "Run commands interactively with undo history" }
func (c *ShellCmd) Usage() string      { return "taskdeck shell" }
func (c *ShellCmd) NeedsSession() bool { return true }
func (c *ShellCmd) NeedsAuth() bool    { return false }

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if env.Stdin == nil || env.Exec == nil {
		fmt.Fprintln(errOut, "error: shell is not available here")
		return exitcode.UserError
	}

	sc := bufio.NewScanner(env.Stdin)
	for {
		if !cfg.Quiet {
			fmt.Fprint(out, Prompt)
		}
		if !sc.Scan() {
			break
		}
		if ctx.Err() != nil {
			return exitcode.Success
		}

		// Quoting follows POSIX shell rules; an unquoted # starts a comment.
		fields, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return exitcode.Success
		case "history":
			undo, redo := env.Session.Depth()
			fmt.Fprintf(out, "undo: %d  redo: %d\n", undo, redo)
		case c.Name(), "repl":
			fmt.Fprintln(errOut, "error: already in a shell")
		default:
			code := env.Exec(ctx, fields, out, errOut)
			cfg.Log.V(1).Info("shell command finished", "command", fields[0], "code", code)
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(errOut, "error: reading input: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
