package issuesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gogithub "github.com/google/go-github/v66/github"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"taskhub/internal/backend/github"
	"taskhub/internal/model"
)

// Batch defaults. GitHub asks clients to keep content-creating requests
// well under one per second.
const (
	DefaultWorkers  = 4
	DefaultInterval = rate.Limit(1)
	DefaultBurst    = 5
)

// Target names the issue a task syncs to.
type Target struct {
	Owner string
	Repo  string
	Token string
	Issue int
}

// ValidateTarget reports every missing piece of t at once.
func ValidateTarget(t Target) error {
	var errs []error
	if t.Owner == "" {
		errs = append(errs, errors.New("repository owner is required"))
	}
	if t.Repo == "" {
		errs = append(errs, errors.New("repository name is required"))
	}
	if t.Token == "" {
		errs = append(errs, errors.New("GitHub token is required"))
	}
	if t.Issue <= 0 {
		errs = append(errs, errors.New("issue number must be a positive number"))
	}
	return errors.Join(errs...)
}

// Options configures a Syncer.
type Options struct {
	Owner string
	Repo  string
	Token string

	HTTPClient *http.Client
	BaseURL    string
	Logger     *slog.Logger

	// Workers bounds concurrent issue updates in SyncAll.
	Workers int
	// Limit and Burst throttle requests across all workers.
	Limit rate.Limit
	Burst int
}

// Syncer writes subtask checklists into GitHub issues of one repository.
type Syncer struct {
	issues  *gogithub.IssuesService
	owner   string
	repo    string
	workers int
	limiter *rate.Limiter
	log     *slog.Logger
}

// New returns a Syncer. It needs an owner, repository and token.
func New(ctx context.Context, opts Options) (*Syncer, error) {
	if err := ValidateTarget(Target{Owner: opts.Owner, Repo: opts.Repo, Token: opts.Token, Issue: 1}); err != nil {
		return nil, err
	}
	c, err := github.NewClient(ctx, opts.HTTPClient, opts.BaseURL, opts.Token)
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultInterval
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Syncer{
		issues:  c.Issues,
		owner:   opts.Owner,
		repo:    opts.Repo,
		workers: opts.Workers,
		limiter: rate.NewLimiter(opts.Limit, opts.Burst),
		log:     log.With("repo", opts.Owner+"/"+opts.Repo),
	}, nil
}

// Sync rewrites the subtask section of issue. The issue is only patched
// when its body would change. It reports whether a patch was sent.
func (s *Syncer) Sync(ctx context.Context, issue int, subtasks []model.Subtask) (bool, error) {
	if issue <= 0 {
		return false, fmt.Errorf("invalid issue number %d", issue)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	current, _, err := s.issues.Get(ctx, s.owner, s.repo, issue)
	if err != nil {
		return false, fmt.Errorf("fetch issue #%d: %w", issue, github.Classify(err))
	}

	body := BuildBody(current.GetBody(), subtasks)
	if body == current.GetBody() {
		s.log.Debug("issue up to date", "issue", issue)
		return false, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	if _, _, err := s.issues.Edit(ctx, s.owner, s.repo, issue, &gogithub.IssueRequest{Body: gogithub.String(body)}); err != nil {
		return false, fmt.Errorf("update issue #%d: %w", issue, github.Classify(err))
	}
	s.log.Debug("issue updated", "issue", issue, "subtasks", len(subtasks))
	return true, nil
}

// Result is the outcome of syncing one task.
type Result struct {
	TaskID  model.ID
	Issue   int
	Changed bool
	Err     error
}

// SyncAll syncs every task linked to an issue. A failing task does not stop
// the others; results come back in task order.
func (s *Syncer) SyncAll(ctx context.Context, tasks []model.Task) []Result {
	var linked []model.Task
	for _, t := range tasks {
		if t.GitHubIssueNumber > 0 {
			linked = append(linked, t)
		}
	}

	results := make([]Result, len(linked))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, t := range linked {
		i, t := i, t
		g.Go(func() error {
			changed, err := s.Sync(ctx, t.GitHubIssueNumber, t.Subtasks)
			results[i] = Result{TaskID: t.ID, Issue: t.GitHubIssueNumber, Changed: changed, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}
