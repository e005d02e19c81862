package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/exitcode"
)

func TestLoginCommand_StoresToken(t *testing.T) {
	env := newEnv(t, nil)
	env.In = strings.NewReader("  ghp_fresh \n")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	token, err := env.Config.Token()
	if err != nil || token != "ghp_fresh" {
		t.Errorf("expected stored token, got %q (%v)", token, err)
	}
	info, err := os.Stat(env.Config.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

func TestLoginCommand_EmptyToken(t *testing.T) {
	env := newEnv(t, nil)
	env.In = strings.NewReader("\n")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env)
	expect(t, stdout, stderr, code, "", "error: token required\n", exitcode.AuthError)
}

func TestLoginCommand_RejectsArgument(t *testing.T) {
	env := newEnv(t, nil)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, "ghp_visible")
	expect(t, stdout, stderr, code, "", "error: pass the token on stdin, not as an argument\n", exitcode.UserError)
}

func TestLogoutCommand_RemovesToken(t *testing.T) {
	env := newEnv(t, nil)
	oauthPath := filepath.Join(env.Config.Dir, config.OAuthClientFile)
	if err := os.WriteFile(oauthPath, []byte(`{"installed":{"client_id":"test","client_secret":"test"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, env)
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	if env.Config.HasToken() {
		t.Error("token should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth client file should NOT have been deleted")
	}
}

func TestLogoutCommand_Mirror(t *testing.T) {
	env := newEnv(t, nil)
	if err := env.Config.WriteGoogleToken([]byte(`{"access_token":"x"}`)); err != nil {
		t.Fatal(err)
	}

	runCommand(t, &commands.LogoutCmd{}, env)
	if !env.Config.HasGoogleToken() {
		t.Error("google token should survive a plain logout")
	}

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, env, "--mirror")
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if env.Config.HasGoogleToken() {
		t.Error("google token should have been deleted")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	env := newEnv(t, nil)
	if err := env.Config.RemoveToken(); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, env)
	expect(t, stdout, stderr, code, "not logged in\n", "", exitcode.Success)

	env.Config.Quiet = true
	stdout, stderr, code = runCommand(t, &commands.LogoutCmd{}, env)
	expect(t, stdout, stderr, code, "", "", exitcode.Success)
}

func TestMirrorLoginCommand_NoOAuthClient(t *testing.T) {
	env := newEnv(t, nil)

	stdout, stderr, code := runCommand(t, &commands.MirrorLoginCmd{}, env)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") {
		t.Errorf("expected error about missing oauth_client.json, got %q", stderr)
	}
}

// A stored token without a refresh token must not count as logged in.
func TestMirrorLoginCommand_NoRefreshToken(t *testing.T) {
	env := newEnv(t, nil)
	oauthClient := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(env.Config.OAuthClientPath(), []byte(oauthClient), 0600); err != nil {
		t.Fatal(err)
	}
	if err := env.Config.WriteGoogleToken([]byte(`{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`)); err != nil {
		t.Fatal(err)
	}

	// Cancelled up front so the flow does not wait for a browser.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut strings.Builder
	code := (&commands.MirrorLoginCmd{}).Run(ctx, env, nil, &out, &errOut)

	if out.String() == "already logged in\n" {
		t.Error("should not say 'already logged in' with token missing refresh_token")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

func TestInitCommand(t *testing.T) {
	env := newEnv(t, nil)

	stdout, stderr, code := runCommand(t, &commands.InitCmd{}, env, "--owner", "octo", "--issue-repo", "app")
	want := "wrote " + env.Config.ConfigPath() + " (octo/myfiles task-data.json)\n"
	expect(t, stdout, stderr, code, want, "", exitcode.Success)

	cfg, err := config.New(env.Config.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.Owner != "octo" || cfg.Settings.Branch != "main" {
		t.Errorf("unexpected settings: %+v", cfg.Settings)
	}
	if owner, repo := cfg.Settings.IssueRepository(); owner != "octo" || repo != "app" {
		t.Errorf("unexpected issue repository %s/%s", owner, repo)
	}
}

func TestInitCommand_RequiresOwner(t *testing.T) {
	env := newEnv(t, nil)

	stdout, stderr, code := runCommand(t, &commands.InitCmd{}, env, "--repo", "notes")
	expect(t, stdout, stderr, code, "", "error: --owner is required\n", exitcode.UserError)
	if env.Config.HasConfigFile() {
		t.Error("config should not be written without an owner")
	}
}
