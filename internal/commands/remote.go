package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/task"
)

func init() {
	Register(&ExportCmd{})
	Register(&ImportCmd{})
}

// resolveRemoteList resolves --list, or the default list when empty.
// On failure it prints the error and returns a non-zero exit code.
func resolveRemoteList(ctx context.Context, svc service.Service, listName string, errOut io.Writer) (service.TaskList, int) {
	if listName == "" {
		list, err := svc.DefaultList(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return service.TaskList{}, exitcode.BackendError
		}
		return list, exitcode.Success
	}

	list, err := svc.ResolveList(ctx, listName)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			fmt.Fprintf(errOut, "error: list not found: %s\n", listName)
			return service.TaskList{}, exitcode.UserError
		}
		if strings.Contains(err.Error(), "ambiguous") {
			fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", listName)
			return service.TaskList{}, exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return service.TaskList{}, exitcode.BackendError
	}
	return list, exitcode.Success
}

// ExportCmd implements the export command.
type ExportCmd struct {
	listName string
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return []string{"push"} }
func (c *ExportCmd) Synopsis() string   { return "Copy tasks to Google Tasks" }
func (c *ExportCmd) Usage() string      { return "taskdeck export [--list <list-name>]" }
func (c *ExportCmd) NeedsSession() bool { return true }
func (c *ExportCmd) NeedsAuth() bool    { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	tasks := env.Session.Tasks()
	if len(tasks) == 0 {
		info(cfg, out, "no tasks")
		return exitcode.Success
	}

	list, code := resolveRemoteList(ctx, env.Remote, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	for i, t := range tasks {
		if err := env.Remote.CreateTask(ctx, list.ID, service.FromLocal(t)); err != nil {
			// Partial failure: report how far we got
			fmt.Fprintf(errOut, "error: backend error: exported %d of %d tasks: %v\n", i, len(tasks), err)
			return exitcode.BackendError
		}
	}

	info(cfg, out, "exported %d tasks to %s", len(tasks), list.Title)
	return exitcode.Success
}

// ImportCmd implements the import command.
type ImportCmd struct {
	listName string
}

func (c *ImportCmd) Name() string       { return "import" }
func (c *ImportCmd) Aliases() []string  { return []string{"pull"} }
func (c *ImportCmd) Synopsis() string   { return "Append open tasks from Google Tasks" }
func (c *ImportCmd) Usage() string      { return "taskdeck import [--list <list-name>]" }
func (c *ImportCmd) NeedsSession() bool { return true }
func (c *ImportCmd) NeedsAuth() bool    { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	list, code := resolveRemoteList(ctx, env.Remote, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	remote, err := service.AllOpenTasks(ctx, env.Remote, list.ID)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	drafts := make([]task.Task, 0, len(remote))
	for _, r := range remote {
		d := service.ToLocal(r)
		if d.Name == "" {
			continue // Untitled remote tasks have no local equivalent
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		info(cfg, out, "nothing to import")
		return exitcode.Success
	}

	added, err := env.Session.Import(ctx, drafts)
	return finish(cfg, err, out, errOut, "imported %d tasks from %s", len(added), list.Title)
}
