package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// StateShow prints the persisted sync state.
func (r *Runner) StateShow(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")

	state := r.store.Load()
	return r.writeJSON(state, pretty)
}

// StateReset clears the freshness markers and the resolution cache so the next
// cycle rebuilds every playlist from scratch. The list selection survives
// unless --all is given.
func (r *Runner) StateReset(ctx context.Context, cmd *cli.Command) error {
	state := r.store.Load()

	state.Lists = map[string]string{}
	state.IDMap = map[string]string{}
	if cmd.Bool("all") {
		state.SelectedSlugs = []string{}
	}

	if err := r.store.Save(state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	r.logger.Info("sync state reset", "path", r.store.Path(), "selection_cleared", cmd.Bool("all"))

	if cmd.Bool("all") {
		return r.writePlain("✓ Sync state and list selection cleared\n")
	}
	return r.writePlain("✓ Sync markers and resolution cache cleared\n")
}
