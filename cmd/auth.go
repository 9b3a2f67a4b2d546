package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/michida/michida/internal/server"
	"github.com/michida/michida/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin runs the browser sign-in flow: it binds a local callback server,
// opens the provider's consent screen, exchanges the returned code, and
// saves the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	timeout := time.Duration(cmd.Int64("timeout")) * time.Second
	token, err := r.doOAuth(ctx, timeout)
	if err != nil {
		return err
	}

	user, err := app.Session.InstallToken(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.logger.Info("signed in", "user", user.ID)
	r.writePlain("✓ Signed in as %s\n", displayName(user.Name, user.Email))
	return nil
}

// AuthLogout revokes the session and clears the saved token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	if app.Session.Current() == nil {
		r.writePlain("Not signed in\n")
		return nil
	}

	if err := app.Session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	r.writePlain("✓ Signed out\n")
	return nil
}

// AuthStatus restores the saved session and reports the signed-in identity.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	user := app.Session.Current()
	if user == nil {
		r.writePlain("✗ Not signed in\n")
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("User: %s\n", displayName(user.Name, user.Email))
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	return nil
}

// doOAuth executes the authorization flow with a local HTTP server receiving
// the provider redirect.
func (r *Runner) doOAuth(ctx context.Context, timeout time.Duration) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	oauthConfig := r.backend.OAuthConfig(r.config.Auth.CallbackOrigin() + "/callback")
	authURL := r.backend.AuthCodeURL(oauthConfig, state, verifier)

	oauthHandler := server.NewOAuthHandler(oauthConfig, state, oauth2.VerifierOption(verifier))
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Auth.CallbackHost, r.config.Auth.CallbackPort)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for sign-in...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, timeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	if email != "" {
		return email
	}
	return "unknown"
}
