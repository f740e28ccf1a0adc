package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trx/internal/shared"
	"github.com/desertthunder/trx/internal/ui"
	"github.com/urfave/cli/v3"
)

// ListsShow prints the user's Trakt lists, marking the ones selected for sync.
func (r *Runner) ListsShow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.source == nil {
		return fmt.Errorf("%w: Trakt service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("fetching trakt lists")

	lists, err := r.source.Lists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch lists: %w", err)
	}

	if useJSON {
		return r.writeJSON(lists, pretty)
	}

	state := r.store.Load()
	selected := make(map[string]bool, len(state.SelectedSlugs))
	for _, slug := range state.SelectedSlugs {
		selected[slug] = true
	}

	r.writePlain("Found %d lists:\n\n", len(lists))
	for i, list := range lists {
		mark := " "
		if selected[list.Slug] {
			mark = "✓"
		}
		r.writePlain("%d. [%s] %s\n", i+1, mark, list.Name)
		r.writePlain("   Slug: %s\n", list.Slug)
		r.writePlain("   Items: %d\n", list.ItemCount)
		if list.UpdatedAt != "" {
			r.writePlain("   Updated: %s\n", list.UpdatedAt)
		}
		r.writePlain("\n")
	}

	return nil
}

// ListsSelect chooses which lists feed the sync cycle.
//
// With --slugs the selection is set directly; otherwise an interactive picker
// opens with the current selection pre-checked.
func (r *Runner) ListsSelect(ctx context.Context, cmd *cli.Command) error {
	state := r.store.Load()

	if cmd.Bool("clear") {
		state.SelectedSlugs = []string{}
		if err := r.store.Save(state); err != nil {
			return fmt.Errorf("failed to save selection: %w", err)
		}
		return r.writePlain("✓ Selection cleared\n")
	}

	if r.source == nil {
		return fmt.Errorf("%w: Trakt service not initialized", shared.ErrServiceUnavailable)
	}

	lists, err := r.source.Lists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch lists: %w", err)
	}

	if raw := cmd.String("slugs"); raw != "" {
		known := make(map[string]bool, len(lists))
		for _, list := range lists {
			known[list.Slug] = true
		}

		slugs := []string{}
		for _, slug := range strings.Split(raw, ",") {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}
			if !known[slug] {
				return fmt.Errorf("%w: unknown list slug %q", shared.ErrInvalidArgument, slug)
			}
			slugs = append(slugs, slug)
		}

		state.SelectedSlugs = slugs
		if err := r.store.Save(state); err != nil {
			return fmt.Errorf("failed to save selection: %w", err)
		}
		return r.writePlain("✓ Selected %d list(s): %s\n", len(slugs), strings.Join(slugs, ", "))
	}

	if len(lists) == 0 {
		return r.writePlain("No lists found on your Trakt account.\n")
	}

	selector := ui.NewSelector(lists, state.SelectedSlugs)
	program := tea.NewProgram(selector)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running picker: %w", err)
	}

	if selector.Canceled() {
		return r.writePlain("Selection unchanged.\n")
	}

	state.SelectedSlugs = selector.Selected()
	if err := r.store.Save(state); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return r.writePlain("✓ Selected %d list(s)\n", len(state.SelectedSlugs))
}
