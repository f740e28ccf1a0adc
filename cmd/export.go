package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes each selected Trakt list to a JSON file for debugging or backup.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	engine, cleanup, err := r.newEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := tasks.ExportOpts{
		OutputDir: cmd.String("output"),
		RateLimit: cmd.Float("rate"),
		Format:    cmd.String("format"),
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for update := range progressCh {
			if !useJSON {
				r.writePlain("📤 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Export(ctx, progressCh, opts)
	close(progressCh)
	<-rendered

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Exported: %d/%d list(s)\n", result.Successful, result.TotalLists)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.Failed > 0 {
		r.writePlain("\nFailed lists:\n")
		for _, list := range result.Results {
			if !list.Success {
				r.writePlain("  ✗ %s: %s\n", list.Slug, list.ErrorMsg)
			}
		}
		return fmt.Errorf("%d list(s) failed to export", result.Failed)
	}

	return nil
}
