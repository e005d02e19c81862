package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
	"taskhub/internal/model"
	"taskhub/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskhub` (no args) and `taskhub list [view]`.
type ListCmd struct {
	view     string
	priority string
	project  string
	tags     []string
	all      bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskhub list [--all] [--priority P0|P1] [--project <name>] [--tag <tag>]... [today|overdue|unassigned|summary]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.view, "view", "", "")
	fs.StringVarP(&c.priority, "priority", "p", "", "")
	fs.StringVarP(&c.project, "project", "P", "", "")
	fs.StringSliceVarP(&c.tags, "tag", "t", nil, "")
	fs.BoolVarP(&c.all, "all", "a", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	viewName := c.view
	switch {
	case len(args) == 1 && viewName == "":
		viewName = args[0]
	case len(args) > 0:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	view, err := model.ParseView(viewName)
	if err != nil {
		return fail(errOut, err)
	}
	prio, err := parsePriority(c.priority)
	if err != nil {
		return fail(errOut, err)
	}

	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}

	project := ""
	if c.project != "" {
		var ok bool
		if project, ok = doc.FindProject(c.project); !ok {
			fmt.Fprintf(errOut, "error: project not found: %s\n", c.project)
			return exitcode.UserError
		}
	}

	now := env.Now()
	idx := model.Filter(doc.Tasks, model.FilterOptions{
		View:          view,
		ShowCompleted: c.all,
		Priority:      prio,
		Project:       project,
		Tags:          c.tags,
		Now:           now,
	})

	if view == model.ViewSummary {
		output.FormatListHeader(out, "Completed today")
	}
	for _, i := range idx {
		output.FormatTask(out, i+1, doc.Tasks[i], now)
	}
	if len(idx) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// parsePriority accepts "", "p0" and "p1" in any case.
func parsePriority(s string) (model.Priority, error) {
	switch p := model.Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case "", model.P0, model.P1:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority: %s (want P0 or P1)", s)
}
