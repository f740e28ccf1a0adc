package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/trx/internal/server"
	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization flow for Trakt.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the auth code for tokens which are saved back to the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if config == nil {
		var err error
		if _, statErr := os.Stat(configPath); statErr == nil {
			config, err = shared.LoadConfig(configPath)
			if err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				config = shared.DefaultConfig()
			}
		} else {
			config = shared.DefaultConfig()
		}
	}

	if config.Credentials.Trakt.ClientID == "" || config.Credentials.Trakt.ClientSecret == "" {
		return fmt.Errorf("%w: Trakt client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	traktService, err := services.NewTraktService(config.Credentials.Trakt.Map(), r.httpClient)
	if err != nil {
		return fmt.Errorf("failed to create Trakt service: %w", err)
	}

	token, err := r.doOAuth(config, traktService, "authorization")
	if err != nil {
		return err
	}

	r.config = config
	r.configPath = configPath
	if err := r.saveTokens(token); err != nil {
		return err
	}

	if err := traktService.Authenticate(ctx, config.Credentials.Trakt.Map()); err != nil {
		return fmt.Errorf("failed to authenticate with new tokens: %w", err)
	}
	r.source = traktService

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: trx lists show\n")

	return nil
}

// AuthStatus reports the current authentication state, verifying the stored
// token against the Trakt list directory.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if r.config.Credentials.Trakt.AccessToken == "" {
		r.writePlain("✗ Not authenticated\n")
		r.writePlain("Run 'trx auth login' to connect your Trakt account.\n")
		return nil
	}

	if r.source == nil {
		return fmt.Errorf("%w: Trakt service not initialized", shared.ErrServiceUnavailable)
	}

	lists, err := r.source.Lists(ctx)
	if err != nil {
		r.writePlain("✗ Stored token was rejected by Trakt\n")
		return fmt.Errorf("%w: %v", shared.ErrInvalidCredentials, err)
	}

	r.writePlain("✓ Authenticated with %s\n", r.source.Name())
	r.writePlain("Lists available: %d\n", len(lists))
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, traktService *services.TraktService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := traktService.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(traktService.GetOAuthConfig(), state)
	router := server.NewRouter()
	router.Use(server.Logging(r.logger))
	router.Mount(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Trakt %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
