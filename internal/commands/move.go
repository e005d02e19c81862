package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/model"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command.
type MoveCmd struct{}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task to another position" }
func (c *MoveCmd) Usage() string     { return "taskhub move <ref> <position>" }
func (c *MoveCmd) NeedsStore() bool  { return true }

func (c *MoveCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	err := mutate(ctx, env, func(doc *model.Document) error {
		id, rest, err := lookupTask(doc, args)
		if err != nil {
			return err
		}
		pos, _, err := parsePosition("position", rest)
		if err != nil {
			return err
		}
		return doc.Reorder(id, pos-1)
	})
	if err != nil {
		return fail(errOut, err)
	}
	return done(env, out)
}
