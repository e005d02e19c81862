package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
	"taskhub/internal/mirror"
	"taskhub/internal/service"
)

func init() {
	Register(&MirrorCmd{})
}

// MirrorCmd pushes tasks one way into Google Tasks.
type MirrorCmd struct {
	list string
}

func (c *MirrorCmd) Name() string      { return "mirror" }
func (c *MirrorCmd) Aliases() []string { return nil }
func (c *MirrorCmd) Synopsis() string  { return "Export tasks to Google Tasks" }
func (c *MirrorCmd) Usage() string     { return "taskhub mirror [--list <list-name>]" }
func (c *MirrorCmd) NeedsStore() bool  { return true }

func (c *MirrorCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.list, "list", "l", "", "")
}

func (c *MirrorCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}

	m, err := env.NewMirror(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v (run: taskhub mirror-login)\n", err)
		return exitcode.AuthError
	}

	name := c.list
	if name == "" {
		name = env.Config.Settings.MirrorList
	}
	var list service.TaskList
	if name == "" {
		list, err = m.DefaultList(ctx)
	} else {
		list, err = m.ResolveList(ctx, name)
	}
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return mirrorFail(errOut, err)
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	res, err := mirror.Export(ctx, m, list.ID, doc, env.Config.Logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: mirror stopped after %d created, %d completed\n", res.Created, res.Completed)
		return mirrorFail(errOut, err)
	}
	if !env.Config.Quiet {
		fmt.Fprintf(out, "%s: %d created, %d completed, %d unchanged\n", list.Title, res.Created, res.Completed, res.Unchanged)
	}
	return exitcode.Success
}

func mirrorFail(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
