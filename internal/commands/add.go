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
	"taskhub/internal/parser"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command. The text is parsed for priority,
// #tags, @project, +themes and a due date.
type AddCmd struct {
	description string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task from free text" }
func (c *AddCmd) Usage() string {
	return "taskhub add [--description <text>] <text...>   e.g. add Call bank p0 @Personal +fin #money tomorrow"
}
func (c *AddCmd) NeedsStore() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	now := env.Now()
	var added model.Task
	var pos int
	err := mutate(ctx, env, func(doc *model.Document) error {
		draft := parser.ParseAt(now, text, doc.Projects, doc.Themes)
		env.Config.Logger.Debug("parsed task", "title", draft.Title, "priority", draft.Priority,
			"project", draft.Project, "themes", draft.Themes, "tags", draft.Tags, "due", draft.DueDate,
			"points", draft.Points)
		if draft.Title == "" {
			return model.ErrEmptyTitle
		}
		added = draft.Task(now)
		if added.Points == nil && env.Config.Settings.DefaultPoints > 0 {
			p := env.Config.Settings.DefaultPoints
			added.Points = &p
		}
		added.Description = c.description
		if err := doc.AddTask(added); err != nil {
			return err
		}
		pos = len(doc.Tasks)
		return nil
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTask(out, pos, added, now)
	}
	return exitcode.Success
}
