package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// credentialsDir returns a config dir holding the given files.
func credentialsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func runIn(t *testing.T, ctx context.Context, cmd commands.Command, dir string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut strings.Builder
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	cfg.Quiet = quiet
	code = cmd.Run(ctx, cfg, &commands.Env{}, nil, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, code := runIn(t, context.Background(), &commands.LoginCmd{}, dir, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found in "+dir) ||
		!strings.Contains(stderr, filepath.Join(dir, "oauth_client.json")) {
		t.Errorf("expected setup instructions, got %q", stderr)
	}
}

// A stored token that cannot be refreshed must not count as logged in.
func TestLoginCommand_UnusableToken(t *testing.T) {
	tokens := map[string]string{
		"corrupt":          `{not json`,
		"no refresh token": `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			dir := credentialsDir(t, map[string]string{
				config.OAuthClientFile: testOAuthClient,
				config.TokenFile:       token,
			})

			// Cancelled so login gives up instead of waiting for the browser.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			stdout, stderr, code := runIn(t, ctx, &commands.LoginCmd{}, dir, false)

			if stdout == "already logged in\n" {
				t.Error("should not say 'already logged in'")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.AuthError, code, stderr)
			}
		})
	}
}

func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := credentialsDir(t, map[string]string{
		config.OAuthClientFile: testOAuthClient,
		config.TokenFile:       `{"access_token":"test","refresh_token":"test"}`,
	})

	stdout, stderr, code := runIn(t, context.Background(), &commands.LogoutCmd{}, dir, false)
	assertResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	if _, err := os.Stat(filepath.Join(dir, config.TokenFile)); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, config.OAuthClientFile)); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	for _, quiet := range []bool{false, true} {
		stdout, stderr, code := runIn(t, context.Background(), &commands.LogoutCmd{}, t.TempDir(), quiet)

		want := "not logged in\n"
		if quiet {
			want = ""
		}
		assertResult(t, stdout, stderr, code, want, "", exitcode.Success)
	}
}
