package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	name     optionalString
	priority optionalString
	due      optionalString
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change a task's name, priority or due date" }
func (c *EditCmd) Usage() string      { return "taskdeck edit [--name <name>] [--priority <p>] [--due YYYY-MM-DD|\"\"] <id>" }
func (c *EditCmd) NeedsSession() bool { return true }
func (c *EditCmd) NeedsAuth() bool    { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.name, c.priority, c.due = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.name, "name", "")
	fs.Var(&c.name, "n", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.due, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(errOut, "error: %v\n", ErrTaskIDRequired)
		return exitcode.UserError
	}
	id, err := ParseTaskID(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var patch task.Patch
	if c.name.set {
		patch.Name = &c.name.value
	}
	if c.priority.set {
		p, err := task.ParsePriority(c.priority.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		patch.Priority = &p
	}
	if c.due.set {
		due := strings.TrimSpace(c.due.value)
		patch.DueDate = &due
	}
	if patch.Empty() {
		fmt.Fprintln(errOut, "error: nothing to change (use --name, --priority or --due)")
		return exitcode.UserError
	}

	found, err := env.Session.Edit(ctx, id, patch)
	if err == nil && !found {
		fmt.Fprintf(errOut, "error: task not found: #%d\n", id)
		return exitcode.UserError
	}
	return finish(cfg, err, out, errOut, "updated #%d", id)
}
