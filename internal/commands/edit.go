package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"taskhub/internal/model"
	"taskhub/internal/parser"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	fs          *pflag.FlagSet
	title       string
	priority    string
	project     string
	themes      []string
	tags        []string
	due         string
	description string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's fields" }
func (c *EditCmd) Usage() string {
	return `taskhub edit <ref> [--title T] [--priority P0|P1] [--project P|""] [--theme T]... [--tag T]... [--due DATE|none] [--description D]`
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVarP(&c.priority, "priority", "p", "", "")
	fs.StringVarP(&c.project, "project", "P", "", "")
	fs.StringSliceVar(&c.themes, "theme", nil, "")
	fs.StringSliceVarP(&c.tags, "tag", "t", nil, "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVarP(&c.description, "description", "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if c.fs.NFlag() == 0 {
		return fail(errOut, fmt.Errorf("nothing to change"))
	}
	if len(args) > 1 {
		return fail(errOut, fmt.Errorf("unexpected argument: %s", args[1]))
	}

	now := env.Now()
	patch, err := c.patch(now)
	if err != nil {
		return fail(errOut, err)
	}

	err = mutate(ctx, env, func(doc *model.Document) error {
		id, _, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		if c.fs.Changed("theme") {
			if patch.Themes, err = c.resolveThemes(doc, id, patch.Project); err != nil {
				return err
			}
		}
		return doc.UpdateTask(id, patch)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

func (c *EditCmd) patch(now time.Time) (model.TaskPatch, error) {
	var p model.TaskPatch
	if c.fs.Changed("title") {
		p.Title = &c.title
	}
	if c.fs.Changed("priority") {
		prio, err := parsePriority(c.priority)
		if err != nil {
			return p, err
		}
		if prio == "" {
			return p, fmt.Errorf("invalid priority: %q", c.priority)
		}
		p.Priority = &prio
	}
	if c.fs.Changed("project") {
		p.Project = &c.project
	}
	if c.fs.Changed("tag") {
		p.Tags = []string{}
		for _, tag := range c.tags {
			if tag = model.NormalizeTag(tag); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	}
	if c.fs.Changed("due") {
		if strings.EqualFold(strings.TrimSpace(c.due), "none") {
			p.ClearDue = true
		} else {
			due := parser.ParseAt(now, c.due, nil, nil).DueDate
			if due == nil {
				return p, fmt.Errorf("invalid date: %s", c.due)
			}
			p.DueDate = due
		}
	}
	if c.fs.Changed("description") {
		p.Description = &c.description
	}
	return p, nil
}

// resolveThemes maps --theme values to the canonical themes of the project
// the task will have after the edit.
func (c *EditCmd) resolveThemes(doc *model.Document, id model.ID, newProject *string) ([]string, error) {
	task, err := doc.Task(id)
	if err != nil {
		return nil, err
	}
	project := task.Project
	if newProject != nil {
		var ok bool
		if project, ok = doc.FindProject(*newProject); !ok && *newProject != "" {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownProject, *newProject)
		}
	}

	themes := []string{}
	for _, name := range c.themes {
		if strings.TrimSpace(name) == "" {
			continue
		}
		theme, ok := doc.FindTheme(project, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownTheme, name)
		}
		themes = append(themes, theme)
	}
	return themes, nil
}
