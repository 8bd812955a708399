package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
)

func init() {
	Register(&ReportCmd{})
}

// ReportCmd implements the report command.
type ReportCmd struct {
	path string
}

func (c *ReportCmd) Name() string       { return "report" }
func (c *ReportCmd) Aliases() []string  { return []string{"pdf"} }
func (c *ReportCmd) Synopsis() string   { return "Write the task list as a PDF" }
func (c *ReportCmd) Usage() string      { return "taskdeck report [--out <file.pdf>|-]" }
func (c *ReportCmd) NeedsSession() bool { return true }
func (c *ReportCmd) NeedsAuth() bool    { return false }

func (c *ReportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.path, "out", "tasks.pdf", "")
	fs.StringVar(&c.path, "o", "tasks.pdf", "")
}

func (c *ReportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	tasks := env.Session.Tasks()

	if c.path == "-" {
		if err := output.WritePDF(out, tasks, time.Now()); err != nil {
			fmt.Fprintf(errOut, "error: failed to write report: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	f, err := os.Create(c.path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	err = output.WritePDF(f, tasks, time.Now())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to write report: %v\n", err)
		return exitcode.UserError
	}

	info(cfg, out, "wrote %s", c.path)
	return exitcode.Success
}
