package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
	"taskhub/internal/model"
)

func init() {
	Register(&LinkCmd{})
}

// LinkCmd records the issue a task's subtasks are synced to.
type LinkCmd struct{}

func (c *LinkCmd) Name() string                    { return "link" }
func (c *LinkCmd) Aliases() []string               { return nil }
func (c *LinkCmd) Synopsis() string                { return "Link a task to a GitHub issue" }
func (c *LinkCmd) Usage() string                   { return "taskhub link <ref> <issue|none>" }
func (c *LinkCmd) NeedsStore() bool                { return true }
func (c *LinkCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *LinkCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	issue, err := parseIssue(args[1])
	if err != nil {
		return fail(errOut, err)
	}
	err = mutate(ctx, env, func(doc *model.Document) error {
		id, _, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		return doc.LinkIssue(id, issue)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}

// parseIssue accepts "42", "#42" or "none".
func parseIssue(s string) (int, error) {
	if strings.EqualFold(s, "none") {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid issue number: %s", s)
	}
	return n, nil
}
