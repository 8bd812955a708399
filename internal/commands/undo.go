package commands

import (
	"context"
	"errors"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/session"
)

func init() {
	Register(&UndoCmd{})
	Register(&RedoCmd{})
}

// UndoCmd implements the undo command.
type UndoCmd struct{ noFlags }

func (c *UndoCmd) Name() string       { return "undo" }
func (c *UndoCmd) Aliases() []string  { return nil }
func (c *UndoCmd) Synopsis() string   { return "Undo the last change" }
func (c *UndoCmd) Usage() string      { return "taskdeck undo" }
func (c *UndoCmd) NeedsSession() bool { return true }
func (c *UndoCmd) NeedsAuth() bool    { return false }

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	err := env.Session.Undo(ctx)
	if errors.Is(err, session.ErrNothingToUndo) {
		info(cfg, out, "nothing to undo")
		return exitcode.Success
	}
	return finish(cfg, err, out, errOut, "undo successful")
}

// RedoCmd implements the redo command.
type RedoCmd struct{ noFlags }

func (c *RedoCmd) Name() string       { return "redo" }
func (c *RedoCmd) Aliases() []string  { return nil }
func (c *RedoCmd) Synopsis() string   { return "Redo the last undone change" }
func (c *RedoCmd) Usage() string      { return "taskdeck redo" }
func (c *RedoCmd) NeedsSession() bool { return true }
func (c *RedoCmd) NeedsAuth() bool    { return false }

func (c *RedoCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	err := env.Session.Redo(ctx)
	if errors.Is(err, session.ErrNothingToRedo) {
		info(cfg, out, "nothing to redo")
		return exitcode.Success
	}
	return finish(cfg, err, out, errOut, "redo successful")
}
