package main

import (
	"context"
	"os"
	"time"

	"github.com/desertthunder/trx/internal/repositories"
	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	timeout := time.Duration(config.Sync.RequestTimeoutSecs) * time.Second
	httpClient := shared.NewHTTPClient(timeout)

	var source services.SourceClient
	if config.Credentials.Trakt.ClientID != "" {
		if svc, err := services.NewTraktService(config.Credentials.Trakt.Map(), httpClient); err == nil {
			if config.Credentials.Trakt.AccessToken != "" {
				if err := svc.Authenticate(context.Background(), config.Credentials.Trakt.Map()); err != nil {
					logger.Warn("trakt authentication failed", "error", err)
				}
			}
			source = svc
		} else {
			logger.Warn("trakt service unavailable", "error", err)
		}
	}

	var target services.TargetClient
	if config.Jellyfin.URL != "" {
		if svc, err := services.NewJellyfinService(config.Jellyfin.URL, config.Jellyfin.APIKey, config.Jellyfin.UserID, httpClient); err == nil {
			target = svc
		} else {
			logger.Warn("jellyfin service unavailable", "error", err)
		}
	}

	store := repositories.NewStateStore(config.Sync.StatePath, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Source:     source,
		Target:     target,
		Store:      store,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "trx",
		Usage:    "Sync Trakt lists to Jellyfin playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
