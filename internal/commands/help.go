package commands

import (
	"context"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{ noFlags }

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdeck help [command]" }
func (c *HelpCmd) NeedsSession() bool { return false }
func (c *HelpCmd) NeedsAuth() bool    { return false }

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(out, helpText)
		return exitcode.Success
	}

	cmd, ok := DefaultRegistry.Find(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}
	fmt.Fprintf(out, "%s\n\n  %s\n", cmd.Synopsis(), cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "\nAliases: %v\n", aliases)
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List tasks
  taskdeck list [common flags] [--format text|json|yaml|csv]
  taskdeck add [common flags] [--priority <p>] [--due <YYYY-MM-DD>] <name...>
  taskdeck rm [common flags] <id>
  taskdeck edit [common flags] [--name <name>] [--priority <p>] [--due <date>] <id>
  taskdeck mv [common flags] <id> <position>
  taskdeck reorder [common flags] <id> <id>...
  taskdeck sort [common flags] priority|date|name
  taskdeck undo [common flags]
  taskdeck redo [common flags]
  taskdeck clear [common flags] --force
  taskdeck shell [common flags]
  taskdeck report [common flags] [--out <file.pdf>]
  taskdeck export [common flags] [--list <list-name>]
  taskdeck import [common flags] [--list <list-name>]
  taskdeck lists [common flags]
  taskdeck login [common flags]
  taskdeck logout [common flags]
  taskdeck help [command]
  taskdeck version

Priorities are low, medium and high. Ids are shown as #<id> by list.
Undo history lives for one process; use shell to undo across commands.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
