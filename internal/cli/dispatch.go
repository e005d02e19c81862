package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/issuesync"
	"taskhub/internal/service"
)

// Factories build the remote clients from config. Used to inject backends
// during dispatch; nil factories make the corresponding commands fail.
type Factories struct {
	Store  func(cfg *config.Config) (service.Store, error)
	Mirror func(ctx context.Context, cfg *config.Config) (service.Mirror, error)
	Syncer func(ctx context.Context, cfg *config.Config, token string) (*issuesync.Syncer, error)
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry  *commands.Registry
	factories Factories

	// In is handed to commands that prompt. Defaults to os.Stdin.
	In io.Reader
	// Now is the clock commands see. Defaults to time.Now.
	Now func() time.Time
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
func NewDispatcher(registry *commands.Registry, factories Factories) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		factories: factories,
		In:        os.Stdin,
		Now:       time.Now,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	fs.SortFlags = false

	// Common flags
	var (
		configDir string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVarP(&quiet, "quiet", "q", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.Logger = config.NewLogger(errOut, debug)
	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir)

	env := &commands.Env{
		Config: cfg,
		In:     d.In,
		Now:    d.Now,
		NewMirror: func(ctx context.Context) (service.Mirror, error) {
			if d.factories.Mirror == nil {
				return nil, errors.New("no mirror configured")
			}
			return d.factories.Mirror(ctx, cfg)
		},
		NewSyncer: func(ctx context.Context, token string) (*issuesync.Syncer, error) {
			if d.factories.Syncer == nil {
				return nil, errors.New("no issue sync configured")
			}
			return d.factories.Syncer(ctx, cfg, token)
		},
	}

	if cmd.NeedsStore() {
		if d.factories.Store == nil {
			fmt.Fprintln(errOut, "error: backend error: no task store configured")
			return exitcode.BackendError
		}
		env.Store, err = d.factories.Store(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s (run: taskhub init --owner <user>)\n", err)
			return exitcode.AuthError
		}
	}

	return cmd.Run(ctx, env, fs.Args(), out, errOut)
}
