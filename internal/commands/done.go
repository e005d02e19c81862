package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/model"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Running it on a completed task
// reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "taskhub done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, _, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		return doc.ToggleTask(id, env.Now())
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
