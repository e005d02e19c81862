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
	Register(&ProjectsCmd{})
	Register(&AddProjectCmd{})
	Register(&RmProjectCmd{})
}

// ProjectsCmd lists projects with their themes and open task counts.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string                    { return "projects" }
func (c *ProjectsCmd) Aliases() []string               { return nil }
func (c *ProjectsCmd) Synopsis() string                { return "List projects and their themes" }
func (c *ProjectsCmd) Usage() string                   { return "taskhub projects" }
func (c *ProjectsCmd) NeedsStore() bool                { return true }
func (c *ProjectsCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}
	for _, p := range doc.Projects {
		open := 0
		for _, t := range doc.Tasks {
			if t.Project == p && !t.Completed {
				open++
			}
		}
		output.FormatProject(out, p, doc.Themes[p], open)
	}
	if len(doc.Projects) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no projects")
	}
	return exitcode.Success
}

// AddProjectCmd creates a project.
type AddProjectCmd struct{}

func (c *AddProjectCmd) Name() string                    { return "addproject" }
func (c *AddProjectCmd) Aliases() []string               { return nil }
func (c *AddProjectCmd) Synopsis() string                { return "Create a project" }
func (c *AddProjectCmd) Usage() string                   { return "taskhub addproject <name>" }
func (c *AddProjectCmd) NeedsStore() bool                { return true }
func (c *AddProjectCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddProjectCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := strings.Join(args, " ")
	err := mutate(ctx, env, func(doc *model.Document) error {
		return doc.AddProject(name)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// RmProjectCmd deletes a project. Without --force it refuses while tasks
// still use the project.
type RmProjectCmd struct {
	force bool
}

func (c *RmProjectCmd) Name() string      { return "rmproject" }
func (c *RmProjectCmd) Aliases() []string { return nil }
func (c *RmProjectCmd) Synopsis() string  { return "Delete a project" }
func (c *RmProjectCmd) Usage() string     { return "taskhub rmproject [--force] <name>" }
func (c *RmProjectCmd) NeedsStore() bool  { return true }

func (c *RmProjectCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.force, "force", "f", false, "")
}

func (c *RmProjectCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := strings.Join(args, " ")
	if name == "" {
		return fail(errOut, fmt.Errorf("project name required"))
	}
	err := mutate(ctx, env, func(doc *model.Document) error {
		return doc.RemoveProject(name, c.force)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
