package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
	"taskhub/internal/model"
)

func init() {
	Register(&ThemesCmd{})
	Register(&AddThemeCmd{})
	Register(&RmThemeCmd{})
}

// ThemesCmd lists the themes of one project.
type ThemesCmd struct{}

func (c *ThemesCmd) Name() string                    { return "themes" }
func (c *ThemesCmd) Aliases() []string               { return nil }
func (c *ThemesCmd) Synopsis() string                { return "List a project's themes" }
func (c *ThemesCmd) Usage() string                   { return "taskhub themes <project>" }
func (c *ThemesCmd) NeedsStore() bool                { return true }
func (c *ThemesCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ThemesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}
	project, ok := doc.FindProject(args[0])
	if !ok {
		return fail(errOut, fmt.Errorf("%w: %s", model.ErrUnknownProject, args[0]))
	}
	for _, th := range doc.Themes[project] {
		fmt.Fprintln(out, th)
	}
	return exitcode.Success
}

// AddThemeCmd adds a theme to a project.
type AddThemeCmd struct{}

func (c *AddThemeCmd) Name() string                    { return "addtheme" }
func (c *AddThemeCmd) Aliases() []string               { return nil }
func (c *AddThemeCmd) Synopsis() string                { return "Add a theme to a project" }
func (c *AddThemeCmd) Usage() string                   { return "taskhub addtheme <project> <theme...>" }
func (c *AddThemeCmd) NeedsStore() bool                { return true }
func (c *AddThemeCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddThemeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	err := mutate(ctx, env, func(doc *model.Document) error {
		return doc.AddTheme(args[0], strings.Join(args[1:], " "))
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// RmThemeCmd removes a theme from a project and its tasks.
type RmThemeCmd struct{}

func (c *RmThemeCmd) Name() string                    { return "rmtheme" }
func (c *RmThemeCmd) Aliases() []string               { return nil }
func (c *RmThemeCmd) Synopsis() string                { return "Remove a theme from a project" }
func (c *RmThemeCmd) Usage() string                   { return "taskhub rmtheme <project> <theme...>" }
func (c *RmThemeCmd) NeedsStore() bool                { return true }
func (c *RmThemeCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmThemeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	err := mutate(ctx, env, func(doc *model.Document) error {
		return doc.RemoveTheme(args[0], strings.Join(args[1:], " "))
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
