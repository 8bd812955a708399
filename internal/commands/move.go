package commands

import (
	"context"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

func init() {
	Register(&MoveCmd{})
	Register(&ReorderCmd{})
}

// MoveCmd implements the mv command: drag one task to a new position.
type MoveCmd struct{ noFlags }

func (c *MoveCmd) Name() string       { return "mv" }
func (c *MoveCmd) Aliases() []string  { return []string{"move"} }
func (c *MoveCmd) Synopsis() string   { return "Move a task to a position" }
func (c *MoveCmd) Usage() string      { return "taskdeck mv <id> <position>" }
func (c *MoveCmd) NeedsSession() bool { return true }
func (c *MoveCmd) NeedsAuth() bool    { return false }

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: usage: taskdeck mv <id> <position>")
		return exitcode.UserError
	}
	id, err := ParseTaskID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	pos, err := ParsePosition(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	found, err := env.Session.Move(ctx, id, pos-1)
	if err == nil && !found {
		fmt.Fprintf(errOut, "error: task not found: #%d\n", id)
		return exitcode.UserError
	}
	return finish(cfg, err, out, errOut, "moved #%d", id)
}

// ReorderCmd implements the reorder command: give the full new order.
type ReorderCmd struct{ noFlags }

func (c *ReorderCmd) Name() string       { return "reorder" }
func (c *ReorderCmd) Aliases() []string  { return nil }
func (c *ReorderCmd) Synopsis() string   { return "Rearrange all tasks" }
func (c *ReorderCmd) Usage() string      { return "taskdeck reorder <id> <id>..." }
func (c *ReorderCmd) NeedsSession() bool { return true }
func (c *ReorderCmd) NeedsAuth() bool    { return false }

func (c *ReorderCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	ids, err := ParseTaskIDs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	err = env.Session.Reorder(ctx, ids)
	return finish(cfg, err, out, errOut, "reordered")
}
