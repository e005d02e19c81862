package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&InitCmd{})
}

// InitCmd writes config.yaml. Flags left unset keep their current value.
type InitCmd struct {
	fs         *pflag.FlagSet
	owner      string
	repo       string
	path       string
	branch     string
	apiURL     string
	issueOwner string
	issueRepo  string
	mirrorList string
}

func (c *InitCmd) Name() string      { return "init" }
func (c *InitCmd) Aliases() []string { return nil }
func (c *InitCmd) Synopsis() string  { return "Configure the task repository" }
func (c *InitCmd) Usage() string {
	return "taskhub init --owner <user> [--repo R] [--path P] [--branch B] [--api-url U] [--issue-owner O] [--issue-repo R] [--mirror-list L]"
}
func (c *InitCmd) NeedsStore() bool { return false }

func (c *InitCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.owner, "owner", "", "")
	fs.StringVar(&c.repo, "repo", "", "")
	fs.StringVar(&c.path, "path", "", "")
	fs.StringVar(&c.branch, "branch", "", "")
	fs.StringVar(&c.apiURL, "api-url", "", "")
	fs.StringVar(&c.issueOwner, "issue-owner", "", "")
	fs.StringVar(&c.issueRepo, "issue-repo", "", "")
	fs.StringVar(&c.mirrorList, "mirror-list", "", "")
}

func (c *InitCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	s := &env.Config.Settings
	for _, f := range []struct {
		name     string
		val, dst *string
	}{
		{"owner", &c.owner, &s.Owner},
		{"repo", &c.repo, &s.Repo},
		{"path", &c.path, &s.Path},
		{"branch", &c.branch, &s.Branch},
		{"api-url", &c.apiURL, &s.APIURL},
		{"issue-owner", &c.issueOwner, &s.IssueOwner},
		{"issue-repo", &c.issueRepo, &s.IssueRepo},
		{"mirror-list", &c.mirrorList, &s.MirrorList},
	} {
		if c.fs.Changed(f.name) {
			*f.dst = *f.val
		}
	}
	if s.Owner == "" {
		fmt.Fprintln(errOut, "error: --owner is required")
		return exitcode.UserError
	}
	if s.Repo == "" || s.Path == "" {
		fmt.Fprintln(errOut, "error: repository and path must not be empty")
		return exitcode.UserError
	}

	if err := env.Config.Save(); err != nil {
		fmt.Fprintf(errOut, "error: failed to write config: %v\n", err)
		return exitcode.AuthError
	}
	if !env.Config.Quiet {
		fmt.Fprintf(out, "wrote %s (%s/%s %s)\n", env.Config.ConfigPath(), s.Owner, s.Repo, s.Path)
	}
	return exitcode.Success
}
