package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
	"taskhub/internal/model"
	"taskhub/internal/output"
)

func init() {
	Register(&TagsCmd{})
	Register(&RenameTagCmd{})
	Register(&RmTagCmd{})
}

// TagsCmd lists tags by usage, optionally filtered by a search query.
type TagsCmd struct {
	search string
	top    int
}

func (c *TagsCmd) Name() string      { return "tags" }
func (c *TagsCmd) Aliases() []string { return nil }
func (c *TagsCmd) Synopsis() string  { return "List tags by usage" }
func (c *TagsCmd) Usage() string     { return "taskhub tags [--search <query>] [--top N]" }
func (c *TagsCmd) NeedsStore() bool  { return true }

func (c *TagsCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.search, "search", "s", "", "")
	fs.IntVarP(&c.top, "top", "n", 0, "")
}

func (c *TagsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if c.top < 0 {
		return fail(errOut, fmt.Errorf("invalid --top: %d", c.top))
	}
	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}

	reg := model.TagRegistry(doc.Tasks)
	var stats []model.TagStat
	if c.search != "" {
		stats = model.SearchTags(reg, c.search)
		if c.top > 0 && len(stats) > c.top {
			stats = stats[:c.top]
		}
	} else {
		n := c.top
		if n == 0 {
			n = len(reg)
		}
		stats = model.FrequentTags(reg, n)
	}

	for _, s := range stats {
		output.FormatTagStat(out, s)
	}
	if len(stats) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tags found")
	}
	return exitcode.Success
}

// RenameTagCmd renames a tag on every task, merging into an existing tag.
type RenameTagCmd struct{}

func (c *RenameTagCmd) Name() string                    { return "renametag" }
func (c *RenameTagCmd) Aliases() []string               { return nil }
func (c *RenameTagCmd) Synopsis() string                { return "Rename a tag on every task" }
func (c *RenameTagCmd) Usage() string                   { return "taskhub renametag <old> <new>" }
func (c *RenameTagCmd) NeedsStore() bool                { return true }
func (c *RenameTagCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RenameTagCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	if model.NormalizeTag(args[1]) == "" {
		return fail(errOut, fmt.Errorf("invalid tag: %s", args[1]))
	}
	var n int
	err := mutate(ctx, env, func(doc *model.Document) error {
		if n = doc.RenameTag(args[0], args[1]); n == 0 {
			return fmt.Errorf("tag not found: %s", args[0])
		}
		return nil
	})
	if err != nil {
		return fail(errOut, err)
	}
	if !env.Config.Quiet {
		fmt.Fprintf(out, "renamed on %d tasks\n", n)
	}
	return exitcode.Success
}

// RmTagCmd removes a tag from every task.
type RmTagCmd struct{}

func (c *RmTagCmd) Name() string                    { return "rmtag" }
func (c *RmTagCmd) Aliases() []string               { return nil }
func (c *RmTagCmd) Synopsis() string                { return "Remove a tag from every task" }
func (c *RmTagCmd) Usage() string                   { return "taskhub rmtag <tag>" }
func (c *RmTagCmd) NeedsStore() bool                { return true }
func (c *RmTagCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmTagCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	var n int
	err := mutate(ctx, env, func(doc *model.Document) error {
		if n = doc.DeleteTag(args[0]); n == 0 {
			return fmt.Errorf("tag not found: %s", args[0])
		}
		return nil
	})
	if err != nil {
		return fail(errOut, err)
	}
	if !env.Config.Quiet {
		fmt.Fprintf(out, "removed from %d tasks\n", n)
	}
	return exitcode.Success
}
