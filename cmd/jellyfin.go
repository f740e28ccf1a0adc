package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
	"github.com/urfave/cli/v3"
)

// JellyfinVerify checks connectivity with the configured Jellyfin server.
func (r *Runner) JellyfinVerify(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.jellyfin()
	if err != nil {
		return err
	}

	r.logger.Info("verifying jellyfin connection", "url", r.config.Jellyfin.URL)

	info, err := svc.SystemInfo(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ Connected to %s\n", r.config.Jellyfin.URL)
	r.writePlain("Server: %s\n", info.ServerName)
	r.writePlain("Version: %s\n", info.Version)
	return nil
}

// JellyfinPlaylists lists the playlists visible to the configured user.
func (r *Runner) JellyfinPlaylists(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	svc, err := r.jellyfin()
	if err != nil {
		return err
	}

	playlists, err := svc.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlist(s):\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
	}
	return nil
}

// jellyfin returns the concrete Jellyfin service, which carries operations
// beyond the TargetClient interface.
func (r *Runner) jellyfin() (*services.JellyfinService, error) {
	if r.target == nil {
		return nil, fmt.Errorf("%w: Jellyfin service not initialized", shared.ErrServiceUnavailable)
	}
	svc, ok := r.target.(*services.JellyfinService)
	if !ok {
		return nil, fmt.Errorf("%w: target service is not Jellyfin", shared.ErrServiceUnavailable)
	}
	return svc, nil
}
