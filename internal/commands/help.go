package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskhub help [command]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 1 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
		return exitcode.Success
	}
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskhub                                   List open tasks
  taskhub list [--all] [--priority P] [--project P] [--tag T]... [view]
                                            view: all, today, overdue, unassigned, summary
  taskhub add [--description D] <text...>   Markers: p0/p1 #tag @project +theme, dates
  taskhub done <ref>
  taskhub rm <ref>
  taskhub edit <ref> [--title T] [--priority P] [--project P] [--theme T]... [--tag T]... [--due D|none] [--description D]
  taskhub move <ref> <position>

  taskhub projects
  taskhub addproject <name>
  taskhub rmproject [--force] <name>
  taskhub themes <project>
  taskhub addtheme <project> <theme>
  taskhub rmtheme <project> <theme>

  taskhub tags [--search Q] [--top N]
  taskhub renametag <old> <new>
  taskhub rmtag <tag>

  taskhub recurring [--project P]
  taskhub addrecur [--project P] [--weekly] <title...>
  taskhub checkin <rN>
  taskhub rmrecur <rN>

  taskhub subtasks <ref>
  taskhub addsub <ref> <title...>
  taskhub subdone <ref> <pos>
  taskhub editsub <ref> <pos> [--title T] [--notes N]
  taskhub rmsub <ref> <pos>
  taskhub movesub <ref> <from> <to>

  taskhub link <ref> <issue|none>
  taskhub issuesync [<ref>]
  taskhub mirror [--list <list-name>]

  taskhub init --owner <user> [--repo R] [--path P] [--branch B]
  taskhub login                             Token read from stdin
  taskhub logout [--mirror]
  taskhub mirror-login
  taskhub help [command]
  taskhub version

A <ref> is the task number shown by list, or an id prefix of at least 4
characters. Recurring tasks are referenced as r1, r2, ... An all-digit
<ref> is always a number; use id:<prefix> for numeric ids (id:1700).

Common flags:
  --config <dir>   Override config directory
  -q, --quiet      Suppress informational output
  --debug          Print debug logs to stderr
`
