package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/closet/internal/formatter"
	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
	"github.com/desertthunder/closet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config.toml from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Created %s\n", path)
	return r.writePlain("Fill in your Auth0 credentials and API base URL, then run `closet auth login`.\n")
}

// UploadImage encodes a photo and submits it for cataloging.
//
// A successful upload does not refresh the inventory; the backend
// processes photos asynchronously.
func (r *Runner) UploadImage(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: usage: closet upload <path>", shared.ErrMissingArgument)
	}

	if r.identity == nil || !r.identity.IsAuthenticated() {
		return fmt.Errorf("%w: run `closet auth login` first", shared.ErrNotAuthenticated)
	}

	r.logger.Info("uploading image", "path", path)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	err := r.engine.Upload(ctx, path, progressCh)
	close(progressCh)

	if err != nil {
		r.writePlain("%s\n", r.engine.State().LastError)
		return err
	}

	return r.writePlain("✓ Image uploaded. Refresh your closet to see new items.\n")
}

// ClosetFetch fetches the inventory and renders it grouped by photo.
func (r *Runner) ClosetFetch(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil || !r.identity.IsAuthenticated() {
		return fmt.Errorf("%w: run `closet auth login` first", shared.ErrNotAuthenticated)
	}

	r.logger.Info("fetching closet")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
	}()

	grouping, err := r.engine.Refresh(ctx, progressCh)
	close(progressCh)

	if err != nil {
		r.writePlain("%s\n", r.engine.State().LastError)
		return err
	}
	if grouping == nil {
		return fmt.Errorf("%w: run `closet auth login` first", shared.ErrNotAuthenticated)
	}

	closet := r.engine.State().Closet

	if savePath := cmd.String("save"); savePath != "" {
		data, err := shared.MarshalJSON(closet, true)
		if err != nil {
			return err
		}
		if err := os.WriteFile(savePath, data, 0644); err != nil {
			return fmt.Errorf("failed to save inventory: %w", err)
		}
		r.writePlain("Saved inventory to %s\n", savePath)
	}

	if cmd.Bool("json") {
		return r.writeJSON(closet, cmd.Bool("pretty"))
	}

	return r.renderGrouping(grouping)
}

// renderGrouping prints the inventory grouped by source photo.
func (r *Runner) renderGrouping(grouping *models.Grouping) error {
	r.writePlainHeader("Your Closet")

	if grouping.Len() == 0 {
		return r.writePlain("Your closet is empty. Upload a photo to get started.\n")
	}

	for _, group := range grouping.Groups() {
		r.writePlainln("%s (%d items)", group.Key, len(group.Items))
		for i, item := range group.Items {
			r.writePlain("  %d. %s\n", i+1, formatter.DescribeItem(item))
			if item.HasExtraInfo() {
				r.writePlain("     Details: %s\n", item.ExtraInfo)
			}
		}
	}

	return nil
}
