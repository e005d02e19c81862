// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"
	"time"

	"github.com/spf13/pflag"

	"taskhub/internal/config"
	"taskhub/internal/issuesync"
	"taskhub/internal/service"
)

// Env carries what a command needs besides its arguments.
type Env struct {
	// Config is always provided (config dir, settings, logger).
	Config *config.Config

	// Store is nil if NeedsStore() returns false.
	Store service.Store

	// NewMirror connects to the Google Tasks mirror on demand.
	NewMirror func(ctx context.Context) (service.Mirror, error)

	// NewSyncer connects to the issue repository with the given credential.
	NewSyncer func(ctx context.Context, token string) (*issuesync.Syncer, error)

	// In is read by commands that prompt.
	In io.Reader

	Now func() time.Time
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or writes the task
	// document. Commands like help, version, init, login return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
