package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

func init() {
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct {
	force bool
}

func (c *ClearCmd) Name() string       { return "clear" }
func (c *ClearCmd) Aliases() []string  { return nil }
func (c *ClearCmd) Synopsis() string   { return "Delete all tasks" }
func (c *ClearCmd) Usage() string      { return "taskdeck clear --force" }
func (c *ClearCmd) NeedsSession() bool { return true }
func (c *ClearCmd) NeedsAuth() bool    { return false }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	n := len(env.Session.Tasks())
	if n == 0 {
		info(cfg, out, "no tasks")
		return exitcode.Success
	}
	if !c.force {
		fmt.Fprintf(errOut, "error: this deletes %d tasks (use --force)\n", n)
		return exitcode.UserError
	}

	n, err := env.Session.Clear(ctx)
	return finish(cfg, err, out, errOut, "deleted %d tasks", n)
}
