package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/closet/internal/shared"
	"github.com/desertthunder/closet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the inventory to disk in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil || !r.identity.IsAuthenticated() {
		return fmt.Errorf("%w: run `closet auth login` first", shared.ErrNotAuthenticated)
	}

	opts := tasks.ExportOpts{
		Format:        cmd.String("format"),
		OutputDir:     cmd.String("output"),
		NumWorkers:    int(cmd.Int("workers")),
		RateLimit:     cmd.Float("rate-limit"),
		IncludeImages: cmd.Bool("images"),
	}

	r.logger.Info("starting export", "format", opts.Format, "images", opts.IncludeImages)
	r.writePlain("Exporting your closet...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.DownloadImage:
				r.writePlain("   %s\n", update.Message)
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Export(ctx, progressCh, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Items: %d across %d photos\n", result.TotalItems, result.TotalGroups)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if opts.IncludeImages {
		r.writePlain("Photos downloaded: %d\n", result.DownloadedImages)
	}
	if len(result.FailedDownloads) > 0 {
		r.writePlain("\nFailed downloads:\n")
		for _, dl := range result.FailedDownloads {
			r.writePlain("  - %s: %s\n", dl.Key, dl.Error)
		}
	}

	return nil
}
