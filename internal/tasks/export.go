package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/trx/internal/formatter"
	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for list exports.
type ExportOpts struct {
	OutputDir string  // Base output directory (default: trakt_export_{epoch})
	RateLimit float64 // Requests per second against the source (default: 5)
	Format    string  // One of the formatter formats (default: json)
}

// ListExportResult records the export of a single list.
type ListExportResult struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Items    int    `json:"items"`
	File     string `json:"file,omitempty"`
	Success  bool   `json:"success"`
	ErrorMsg string `json:"error,omitempty"`
}

// ExportResult summarizes an export run across the selected lists.
type ExportResult struct {
	TotalLists      int                `json:"total_lists"`
	Successful      int                `json:"successful"`
	Failed          int                `json:"failed"`
	OutputDirectory string             `json:"output_directory"`
	ManifestPath    string             `json:"manifest_path,omitempty"`
	Results         []ListExportResult `json:"results"`
}

// Export writes each selected list to a file in the output directory, plus a
// JSON manifest summarizing the run. Requests against the source are rate
// limited; per-list failures are recorded and do not stop the export.
func (e *Engine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("trakt_export_%d", time.Now().Unix())
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if !formatter.Supported(opts.Format) {
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, opts.Format)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	state := e.store.Load()
	if len(state.SelectedSlugs) == 0 {
		return nil, fmt.Errorf("%w: no lists selected", shared.ErrMissingArgument)
	}

	lists, err := e.source.Lists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list directory: %w", err)
	}
	directory := make(map[string]struct {
		name      string
		updatedAt string
	}, len(lists))
	for _, list := range lists {
		directory[list.Slug] = struct {
			name      string
			updatedAt string
		}{list.Name, list.UpdatedAt}
	}

	result := &ExportResult{
		TotalLists:      len(state.SelectedSlugs),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ListExportResult, 0, len(state.SelectedSlugs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	total := len(state.SelectedSlugs)

	for i, slug := range state.SelectedSlugs {
		meta := directory[slug]
		name := meta.name
		if name == "" {
			name = slug
		}

		e.sendProgress(progress, exportingListUpdate(i+1, total, name))

		listResult := ListExportResult{Slug: slug, Name: name}

		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("export interrupted: %w", err)
		}

		items, err := e.source.ListItems(ctx, slug)
		if err != nil {
			listResult.ErrorMsg = err.Error()
			result.Failed++
			result.Results = append(result.Results, listResult)
			e.sendProgress(progress, exportFailedUpdate(i+1, total, name, err))
			continue
		}

		remote := services.RemoteList{Slug: slug, Name: name, UpdatedAt: meta.updatedAt}
		data, err := formatter.Render(opts.Format, remote, items)
		if err != nil {
			listResult.ErrorMsg = err.Error()
			result.Failed++
			result.Results = append(result.Results, listResult)
			continue
		}

		path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.%s", slug, formatter.Extension(opts.Format)))
		if err := os.WriteFile(path, data, 0644); err != nil {
			listResult.ErrorMsg = err.Error()
			result.Failed++
			result.Results = append(result.Results, listResult)
			continue
		}

		listResult.Items = len(items)
		listResult.File = path
		listResult.Success = true
		result.Successful++
		result.Results = append(result.Results, listResult)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}
