package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd stores the GitHub credential. The token is read from stdin,
// without echo when stdin is a terminal.
type LoginCmd struct{}

func (c *LoginCmd) Name() string                    { return "login" }
func (c *LoginCmd) Aliases() []string               { return nil }
func (c *LoginCmd) Synopsis() string                { return "Store a GitHub token" }
func (c *LoginCmd) Usage() string                   { return "taskhub login   (token read from stdin)" }
func (c *LoginCmd) NeedsStore() bool                { return false }
func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(errOut, "error: pass the token on stdin, not as an argument")
		return exitcode.UserError
	}

	token, err := readToken(env.In, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read token: %v\n", err)
		return exitcode.AuthError
	}
	if token == "" {
		fmt.Fprintln(errOut, "error: token required")
		return exitcode.AuthError
	}

	if err := env.Config.SetToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	if os.Getenv(config.TokenEnv) != "" {
		fmt.Fprintf(errOut, "warning: %s is set and takes precedence over the stored token\n", config.TokenEnv)
	}
	return done(env, out)
}

func readToken(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "GitHub token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
