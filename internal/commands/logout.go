package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd removes the stored GitHub credential and, with --mirror, the
// Google token as well.
type LogoutCmd struct {
	mirror bool
}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored credentials" }
func (c *LogoutCmd) Usage() string     { return "taskhub logout [--mirror]" }
func (c *LogoutCmd) NeedsStore() bool  { return false }

func (c *LogoutCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.mirror, "mirror", false, "")
}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	cfg := env.Config
	removed := false

	if cfg.HasToken() {
		if err := cfg.RemoveToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
			return exitcode.AuthError
		}
		removed = true
	}
	if c.mirror && cfg.HasGoogleToken() {
		if err := os.Remove(cfg.GoogleTokenPath()); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove google token: %v\n", err)
			return exitcode.AuthError
		}
		removed = true
	}

	if !removed {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}
	return done(env, out)
}
