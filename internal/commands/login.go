package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"text/template"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/backend/googletasks"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
)

const (
	oauthCallbackTimeout = 5 * time.Minute
	tokenExchangeTimeout = 30 * time.Second
	tokenCheckTimeout    = 10 * time.Second

	// The callback server tries this many ports, starting at oauthStartPort.
	oauthStartPort       = 8085
	oauthMaxPortAttempts = 5
)

var setupHelp = template.Must(template.New("setup").Parse(`error: {{.File}} not found in {{.Dir}}

To export to or import from Google Tasks, taskdeck needs OAuth credentials:

1. Go to https://console.cloud.google.com/apis/credentials
2. Create a project (or select an existing one)
3. Enable the Google Tasks API:
   https://console.cloud.google.com/apis/library/tasks.googleapis.com
4. Create an OAuth client ID of type 'Desktop app' and download the JSON
5. Save it as:
   {{.Path}}

Then run 'taskdeck login' again.
`))

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{ noFlags }

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Authenticate with Google Tasks for export and import" }
func (c *LoginCmd) Usage() string      { return "taskdeck login [common flags]" }
func (c *LoginCmd) NeedsSession() bool { return false }
func (c *LoginCmd) NeedsAuth() bool    { return false }

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		setupHelp.Execute(errOut, map[string]string{
			"File": config.OAuthClientFile,
			"Dir":  cfg.Dir,
			"Path": cfg.OAuthClientPath(),
		})
		return exitcode.AuthError
	}

	if cfg.HasToken() && tokenUsable(ctx, cfg) {
		info(cfg, out, "already logged in")
		return exitcode.Success
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	srv, err := listenForCallback()
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer srv.close(cfg)

	oauthConfig.RedirectURL = srv.redirectURL()
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := srv.wait(ctx, oauthCallbackTimeout)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := saveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Log.V(1).Info("saved token", "path", cfg.TokenPath())

	info(cfg, out, "ok")
	return exitcode.Success
}

// callbackServer receives the authorization code on localhost.
type callbackServer struct {
	port   int
	server *http.Server
	codes  chan string
	errs   chan error
}

// listenForCallback binds the first free port from oauthStartPort and starts
// serving /callback.
func listenForCallback() (*callbackServer, error) {
	var (
		ln   net.Listener
		port int
		err  error
	)
	for i := range oauthMaxPortAttempts {
		port = oauthStartPort + i
		ln, err = net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("no available port found: %w", err)
	}

	s := &callbackServer{
		port:  port,
		codes: make(chan string, 1),
		errs:  make(chan error, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handle)
	s.server = &http.Server{Handler: mux}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.fail(err)
		}
	}()
	return s, nil
}

func (s *callbackServer) redirectURL() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

func (s *callbackServer) handle(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No code in callback", http.StatusBadRequest)
		s.fail(errors.New("no code in callback"))
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<html><body><h1>taskdeck is authorized</h1><p>You may close this window.</p></body></html>")
	select {
	case s.codes <- code:
	default:
	}
}

func (s *callbackServer) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// wait blocks until a code arrives, the server fails, timeout passes or ctx
// is cancelled.
func (s *callbackServer) wait(ctx context.Context, timeout time.Duration) (string, error) {
	select {
	case code := <-s.codes:
		return code, nil
	case err := <-s.errs:
		return "", err
	case <-time.After(timeout):
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

func (s *callbackServer) close(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		cfg.Log.V(1).Info("callback server shutdown", "err", err.Error())
	}
}

// tokenUsable reports whether token.json holds a refresh token that the
// OAuth client can still exchange for an access token.
func tokenUsable(ctx context.Context, cfg *config.Config) bool {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil || token.RefreshToken == "" {
		return false
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, tokenCheckTimeout)
	defer cancel()
	if _, err := oauthConfig.TokenSource(ctx, &token).Token(); err != nil {
		cfg.Log.V(1).Info("stored token rejected", "err", err.Error())
		return false
	}
	return true
}

// saveToken writes token as indented JSON with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
