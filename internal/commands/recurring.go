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
	Register(&RecurringCmd{})
	Register(&AddRecurCmd{})
	Register(&CheckinCmd{})
	Register(&RmRecurCmd{})
}

// RecurringCmd lists recurring tasks. Numbers are accepted as r<N> by the
// other recurring commands.
type RecurringCmd struct {
	project string
}

func (c *RecurringCmd) Name() string      { return "recurring" }
func (c *RecurringCmd) Aliases() []string { return []string{"habits"} }
func (c *RecurringCmd) Synopsis() string  { return "List recurring tasks" }
func (c *RecurringCmd) Usage() string     { return "taskhub recurring [--project <name>]" }
func (c *RecurringCmd) NeedsStore() bool  { return true }

func (c *RecurringCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.project, "project", "P", "", "")
}

func (c *RecurringCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}
	project := ""
	if c.project != "" {
		var ok bool
		if project, ok = doc.FindProject(c.project); !ok {
			return fail(errOut, fmt.Errorf("%w: %s", model.ErrUnknownProject, c.project))
		}
	}

	now := env.Now()
	idx := model.FilterRecurring(doc.RecurringTasks, project)
	for _, i := range idx {
		output.FormatRecurring(out, i+1, doc.RecurringTasks[i], now)
	}
	if len(idx) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no recurring tasks")
	}
	return exitcode.Success
}

// AddRecurCmd creates a recurring task.
type AddRecurCmd struct {
	project string
	weekly  bool
}

func (c *AddRecurCmd) Name() string      { return "addrecur" }
func (c *AddRecurCmd) Aliases() []string { return nil }
func (c *AddRecurCmd) Synopsis() string  { return "Create a recurring task" }
func (c *AddRecurCmd) Usage() string {
	return "taskhub addrecur [--project <name>] [--weekly] <title...>"
}
func (c *AddRecurCmd) NeedsStore() bool { return true }

func (c *AddRecurCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.project, "project", "P", "", "")
	fs.BoolVarP(&c.weekly, "weekly", "w", false, "")
}

func (c *AddRecurCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fail(errOut, model.ErrEmptyTitle)
	}
	err := mutate(ctx, env, func(doc *model.Document) error {
		r := model.NewRecurringTask(title, env.Now())
		if c.weekly {
			r.Frequency = model.Weekly
		}
		if c.project != "" {
			project, ok := doc.FindProject(c.project)
			if !ok {
				return fmt.Errorf("%w: %s", model.ErrUnknownProject, c.project)
			}
			r.Project = project
		}
		return doc.AddRecurring(r)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// CheckinCmd toggles today's completion of a recurring task.
type CheckinCmd struct{}

func (c *CheckinCmd) Name() string                    { return "checkin" }
func (c *CheckinCmd) Aliases() []string               { return nil }
func (c *CheckinCmd) Synopsis() string                { return "Toggle today's check-in of a recurring task" }
func (c *CheckinCmd) Usage() string                   { return "taskhub checkin <rN|ref>" }
func (c *CheckinCmd) NeedsStore() bool                { return true }
func (c *CheckinCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *CheckinCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	var checked bool
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, _, err := lookupRecurring(doc, args)
		if err != nil {
			return err
		}
		checked, err = doc.ToggleRecurring(id, env.Now())
		return err
	})
	if err != nil {
		return fail(errOut, err)
	}
	if !env.Config.Quiet {
		if checked {
			fmt.Fprintln(out, "checked in")
		} else {
			fmt.Fprintln(out, "check-in removed")
		}
	}
	return exitcode.Success
}

// RmRecurCmd deletes a recurring task.
type RmRecurCmd struct{}

func (c *RmRecurCmd) Name() string                    { return "rmrecur" }
func (c *RmRecurCmd) Aliases() []string               { return nil }
func (c *RmRecurCmd) Synopsis() string                { return "Delete a recurring task" }
func (c *RmRecurCmd) Usage() string                   { return "taskhub rmrecur <rN|ref>" }
func (c *RmRecurCmd) NeedsStore() bool                { return true }
func (c *RmRecurCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmRecurCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, _, err := lookupRecurring(doc, args)
		if err != nil {
			return err
		}
		return doc.DeleteRecurring(id)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
