// Package main is the entry point for the taskhub CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskhub/internal/backend/github"
	"taskhub/internal/backend/googletasks"
	"taskhub/internal/cli"
	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/issuesync"
	"taskhub/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factories := cli.Factories{
		Store: func(cfg *config.Config) (service.Store, error) {
			s := cfg.Settings
			return github.New(github.Options{
				Owner:      s.Owner,
				Repo:       s.Repo,
				Path:       s.Path,
				Branch:     s.Branch,
				Projects:   s.DefaultProjects,
				Themes:     s.DefaultThemes,
				HTTPClient: cfg.HTTPClient(),
				BaseURL:    s.APIURL,
				Logger:     cfg.Logger,
			})
		},
		Mirror: func(ctx context.Context, cfg *config.Config) (service.Mirror, error) {
			return googletasks.New(ctx, cfg)
		},
		Syncer: func(ctx context.Context, cfg *config.Config, token string) (*issuesync.Syncer, error) {
			owner, repo := cfg.Settings.IssueRepository()
			return issuesync.New(ctx, issuesync.Options{
				Owner:      owner,
				Repo:       repo,
				Token:      token,
				HTTPClient: cfg.HTTPClient(),
				BaseURL:    cfg.Settings.APIURL,
				Logger:     cfg.Logger,
			})
		},
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factories)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
