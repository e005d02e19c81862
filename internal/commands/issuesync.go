package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
	"taskhub/internal/issuesync"
	"taskhub/internal/service"
)

func init() {
	Register(&IssueSyncCmd{})
}

// IssueSyncCmd writes subtask checklists into linked GitHub issues. With a
// task reference only that task is synced.
type IssueSyncCmd struct{}

func (c *IssueSyncCmd) Name() string                    { return "issuesync" }
func (c *IssueSyncCmd) Aliases() []string               { return nil }
func (c *IssueSyncCmd) Synopsis() string                { return "Sync subtasks into linked GitHub issues" }
func (c *IssueSyncCmd) Usage() string                   { return "taskhub issuesync [<ref>]" }
func (c *IssueSyncCmd) NeedsStore() bool                { return true }
func (c *IssueSyncCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *IssueSyncCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintf(errOut, "usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	doc, _, err := loadDocument(ctx, env)
	if err != nil {
		return fail(errOut, err)
	}

	tasks := doc.Tasks
	if len(args) == 1 {
		id, _, err := lookupTask(&doc, args)
		if err != nil {
			return fail(errOut, err)
		}
		task, _ := doc.Task(id)
		if task.GitHubIssueNumber == 0 {
			fmt.Fprintf(errOut, "error: task is not linked to an issue (run: taskhub link %s <issue>)\n", args[0])
			return exitcode.UserError
		}
		tasks = tasks[doc.TaskIndex(id) : doc.TaskIndex(id)+1]
	}

	token, err := env.Config.Token()
	if err != nil {
		return fail(errOut, fmt.Errorf("read credential: %w", err))
	}
	syncer, err := env.NewSyncer(ctx, token)
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	results := syncer.SyncAll(ctx, tasks)
	if len(results) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no linked tasks")
		}
		return exitcode.Success
	}
	return c.report(env, results, out, errOut)
}

func (c *IssueSyncCmd) report(env *Env, results []issuesync.Result, out, errOut io.Writer) int {
	code := exitcode.Success
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(errOut, "error: #%d: %v\n", r.Issue, r.Err)
			if errors.Is(r.Err, service.ErrUnauthorized) {
				code = exitcode.AuthError
			} else if code == exitcode.Success {
				code = exitcode.BackendError
			}
		case env.Config.Quiet:
		case r.Changed:
			fmt.Fprintf(out, "#%d updated\n", r.Issue)
		default:
			fmt.Fprintf(out, "#%d up to date\n", r.Issue)
		}
	}
	return code
}
