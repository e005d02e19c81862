package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/model"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskhub rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, _, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		return doc.DeleteTask(id)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
