package commands

import (
	"context"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/task"
)

func init() {
	Register(&SortCmd{})
}

// SortCmd implements the sort command.
type SortCmd struct{ noFlags }

func (c *SortCmd) Name() string       { return "sort" }
func (c *SortCmd) Aliases() []string  { return nil }
func (c *SortCmd) Synopsis() string   { return "Sort tasks by priority, due date or name" }
func (c *SortCmd) Usage() string      { return "taskdeck sort priority|date|name" }
func (c *SortCmd) NeedsSession() bool { return true }
func (c *SortCmd) NeedsAuth() bool    { return false }

func (c *SortCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: sort key required (priority, date or name)")
		return exitcode.UserError
	}
	key, err := task.ParseSortKey(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	changed, err := env.Session.Sort(ctx, key)
	if err == nil && !changed {
		info(cfg, out, "already sorted by %s", key)
		return exitcode.Success
	}
	return finish(cfg, err, out, errOut, "sorted by %s", key)
}
