package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"taskhub/internal/cli"
	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/testutil"
)

func init() {
	color.NoColor = true
}

var testNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

// newDispatcher returns a dispatcher over store with a fixed clock.
func newDispatcher(t *testing.T, store service.Store) *cli.Dispatcher {
	t.Helper()
	t.Setenv(config.TokenEnv, "ghp_env")
	d := cli.NewDispatcher(commands.DefaultRegistry, cli.Factories{
		Store: func(cfg *config.Config) (service.Store, error) {
			return store, nil
		},
	})
	d.In = strings.NewReader("")
	d.Now = func() time.Time { return testNow }
	return d
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	args = append(args, "--config", t.TempDir())
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(t, nil), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := newDispatcher(t, nil).Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, newDispatcher(t, nil), "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_HelpFlag(t *testing.T) {
	stdout, _, code := run(t, newDispatcher(t, nil), "addsub", "-h")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Add a subtask to a task\n\nUsage:\n  taskhub addsub <ref> <title...>\n" {
		t.Errorf("unexpected usage output %q", stdout)
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, newDispatcher(t, nil), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskhub 0.1.0\n" {
		t.Errorf("expected 'taskhub 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"help", "--unknown"}, "error: unknown flag: --unknown\n"},
		{[]string{"list", "--project"}, "error: flag needs an argument: --project\n"},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		code := newDispatcher(t, nil).Run(context.Background(), tt.args, &stdout, &stderr)

		if code != exitcode.UserError {
			t.Errorf("%v: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr.String() != tt.wantErr {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.wantErr, stderr.String())
		}
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	d := newDispatcher(t, testutil.NewFakeStore(nil))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout.String())
	}
}

func TestDispatcher_AddThenList(t *testing.T) {
	store := testutil.NewFakeStore(nil)
	d := newDispatcher(t, store)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"add", "--config", dir, "-q", "Pay", "rent", "p0", "@home", "#bills"}, &stdout, &stderr)
	if code != exitcode.Success || stdout.Len() != 0 {
		t.Fatalf("add: code %d, stdout %q, stderr %q", code, stdout.String(), stderr.String())
	}

	stdout.Reset()
	code = d.Run(context.Background(), []string{"list", "--config", dir}, &stdout, &stderr)
	if code != exitcode.Success {
		t.Fatalf("list: code %d, stderr %q", code, stderr.String())
	}
	if want := "   1  [ ] P0 Pay rent  @Home #bills\n"; stdout.String() != want {
		t.Errorf("expected %q, got %q", want, stdout.String())
	}
	if creds := store.Credentials; len(creds) == 0 || creds[0] != "ghp_env" {
		t.Errorf("expected env credential, got %v", creds)
	}
}

func TestDispatcher_StoreFactoryError(t *testing.T) {
	t.Setenv(config.TokenEnv, "")
	d := cli.NewDispatcher(commands.DefaultRegistry, cli.Factories{
		Store: func(cfg *config.Config) (service.Store, error) {
			return nil, errors.New("repository owner is not configured")
		},
	})

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	want := "error: repository owner is not configured (run: taskhub init --owner <user>)\n"
	if stderr.String() != want {
		t.Errorf("expected %q, got %q", want, stderr.String())
	}
}

func TestDispatcher_CommandsWithoutStore(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, cli.Factories{})

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"logout", "--config", t.TempDir(), "--quiet"}, &stdout, &stderr)
	if code != exitcode.Success || stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("logout: code %d, stdout %q, stderr %q", code, stdout.String(), stderr.String())
	}

	code = d.Run(context.Background(), []string{"list", "--config", t.TempDir()}, &stdout, &stderr)
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d without a store, got %d", exitcode.BackendError, code)
	}
}
