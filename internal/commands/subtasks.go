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
	Register(&SubtasksCmd{})
	Register(&AddSubCmd{})
	Register(&SubDoneCmd{})
	Register(&RmSubCmd{})
	Register(&MoveSubCmd{})
	Register(&EditSubCmd{})
}

// SubtasksCmd shows a task with its checklist and progress.
type SubtasksCmd struct{}

func (c *SubtasksCmd) Name() string                    { return "subtasks" }
func (c *SubtasksCmd) Aliases() []string               { return []string{"show"} }
func (c *SubtasksCmd) Synopsis() string                { return "Show a task's subtasks" }
func (c *SubtasksCmd) Usage() string                   { return "taskhub subtasks <ref>" }
func (c *SubtasksCmd) NeedsStore() bool                { return true }
func (c *SubtasksCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *SubtasksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}
	id, _, err := lookupTask(&doc, args)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := doc.Task(id)
	if err != nil {
		return fail(errOut, err)
	}

	output.FormatTask(out, doc.TaskIndex(id)+1, *task, env.Now())
	if task.Description != "" {
		fmt.Fprintf(out, "      %s\n", strings.ReplaceAll(task.Description, "\n", "\n      "))
	}
	for i, s := range model.SortedSubtasks(task.Subtasks) {
		output.FormatSubtask(out, i+1, s)
	}
	if len(task.Subtasks) > 0 {
		output.FormatProgress(out, model.SubtaskProgress(task.Subtasks))
	} else if !env.Config.Quiet {
		fmt.Fprintln(out, "no subtasks")
	}
	return exitcode.Success
}

// AddSubCmd appends a subtask.
type AddSubCmd struct{}

func (c *AddSubCmd) Name() string                    { return "addsub" }
func (c *AddSubCmd) Aliases() []string               { return nil }
func (c *AddSubCmd) Synopsis() string                { return "Add a subtask to a task" }
func (c *AddSubCmd) Usage() string                   { return "taskhub addsub <ref> <title...>" }
func (c *AddSubCmd) NeedsStore() bool                { return true }
func (c *AddSubCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddSubCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, rest, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		_, err = doc.AddSubtask(id, strings.Join(rest, " "), env.Now())
		return err
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// SubDoneCmd toggles a subtask.
type SubDoneCmd struct{}

func (c *SubDoneCmd) Name() string                    { return "subdone" }
func (c *SubDoneCmd) Aliases() []string               { return nil }
func (c *SubDoneCmd) Synopsis() string                { return "Toggle a subtask's completion" }
func (c *SubDoneCmd) Usage() string                   { return "taskhub subdone <ref> <pos>" }
func (c *SubDoneCmd) NeedsStore() bool                { return true }
func (c *SubDoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *SubDoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, rest, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		pos, _, err := parsePosition("subtask position", rest)
		if err != nil {
			return err
		}
		return doc.ToggleSubtask(id, pos, env.Now())
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// RmSubCmd deletes a subtask.
type RmSubCmd struct{}

func (c *RmSubCmd) Name() string                    { return "rmsub" }
func (c *RmSubCmd) Aliases() []string               { return nil }
func (c *RmSubCmd) Synopsis() string                { return "Delete a subtask" }
func (c *RmSubCmd) Usage() string                   { return "taskhub rmsub <ref> <pos>" }
func (c *RmSubCmd) NeedsStore() bool                { return true }
func (c *RmSubCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmSubCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, rest, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		pos, _, err := parsePosition("subtask position", rest)
		if err != nil {
			return err
		}
		return doc.DeleteSubtask(id, pos)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// MoveSubCmd reorders a subtask.
type MoveSubCmd struct{}

func (c *MoveSubCmd) Name() string                    { return "movesub" }
func (c *MoveSubCmd) Aliases() []string               { return nil }
func (c *MoveSubCmd) Synopsis() string                { return "Move a subtask to another position" }
func (c *MoveSubCmd) Usage() string                   { return "taskhub movesub <ref> <from> <to>" }
func (c *MoveSubCmd) NeedsStore() bool                { return true }
func (c *MoveSubCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *MoveSubCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, rest, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		from, rest, err := parsePosition("subtask position", rest)
		if err != nil {
			return err
		}
		to, _, err := parsePosition("target position", rest)
		if err != nil {
			return err
		}
		return doc.ReorderSubtasks(id, from, to)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// EditSubCmd changes a subtask's title or notes.
type EditSubCmd struct {
	fs    *pflag.FlagSet
	title string
	notes string
}

func (c *EditSubCmd) Name() string      { return "editsub" }
func (c *EditSubCmd) Aliases() []string { return nil }
func (c *EditSubCmd) Synopsis() string  { return "Change a subtask's title or notes" }
func (c *EditSubCmd) Usage() string {
	return "taskhub editsub <ref> <pos> [--title <title>] [--notes <notes>]"
}
func (c *EditSubCmd) NeedsStore() bool { return true }

func (c *EditSubCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVarP(&c.notes, "notes", "n", "", "")
}

func (c *EditSubCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	var title, notes *string
	if c.fs.Changed("title") {
		title = &c.title
	}
	if c.fs.Changed("notes") {
		notes = &c.notes
	}
	if title == nil && notes == nil {
		return fail(errOut, fmt.Errorf("nothing to change"))
	}
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, rest, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		pos, _, err := parsePosition("subtask position", rest)
		if err != nil {
			return err
		}
		return doc.UpdateSubtask(id, pos, title, notes)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
