package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/closet/internal/formatter"
	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for inventory exports.
type ExportOpts struct {
	Format        string                            // Export format: json, csv, markdown, txt
	OutputDir     string                            // Base output directory (default: closet_export_{epoch})
	NumWorkers    int                               // Concurrent image download workers (default: 3)
	RateLimit     float64                           // Downloads per second (default: 5)
	IncludeImages bool                              // Download each photo alongside the inventory
	FetchImage    func(url string) ([]byte, error) // Image fetcher (default: formatter.DownloadImage)
}

// ImageDownloadResult records the outcome of a single photo download.
type ImageDownloadResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// ExportResult summarizes a completed inventory export.
type ExportResult struct {
	ExportID         string                `json:"export_id"`
	Format           string                `json:"format"`
	OutputDirectory  string                `json:"output_directory"`
	TotalItems       int                   `json:"total_items"`
	TotalGroups      int                   `json:"total_groups"`
	Files            []string              `json:"files"`
	DownloadedImages int                   `json:"downloaded_images"`
	FailedDownloads  []ImageDownloadResult `json:"failed_downloads,omitempty"`
	ManifestPath     string                `json:"-"`
}

// Export fetches the current inventory and writes it to disk in the
// requested format, optionally downloading each group's photo through a
// rate-limited worker pool.
func (e *ClosetEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.wardrobe == nil {
		return nil, fmt.Errorf("%w: wardrobe service not initialized", shared.ErrServiceUnavailable)
	}

	user := e.currentUser()
	if user == nil {
		return nil, fmt.Errorf("%w: sign in before exporting", shared.ErrNotAuthenticated)
	}

	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("closet_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.FetchImage == nil {
		opts.FetchImage = formatter.DownloadImage
	}

	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.finish(nil)

	e.sendProgress(progress, fetchingClosetUpdate(1, 3))

	closet, err := e.wardrobe.FetchCloset(ctx, user.Subject)
	if err != nil {
		e.logger.Error("failed to fetch closet for export", "error", err)
		return nil, err
	}

	grouping := models.GroupByImage(closet.Items)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		ExportID:        shared.GenerateID(),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		TotalItems:      len(closet.Items),
		TotalGroups:     grouping.Len(),
	}

	imagePaths := map[string]string{}
	if opts.IncludeImages {
		downloads := e.downloadImages(ctx, progress, grouping, opts)
		for _, dl := range downloads {
			if dl.Error == "" {
				result.DownloadedImages++
				imagePaths[dl.Key] = dl.Path
			} else {
				result.FailedDownloads = append(result.FailedDownloads, dl)
			}
		}
	}

	e.sendProgress(progress, writeExportUpdate(3, 3, opts.Format))

	files, err := writeInventory(closet, grouping, imagePaths, opts)
	if err != nil {
		return nil, err
	}
	result.Files = files

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to render manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.sendProgress(progress, exportDoneUpdate(3, 3, opts.OutputDir, len(result.Files)))
	return result, nil
}

// downloadImages fetches each group's representative photo through a
// rate-limited worker pool and writes it under {OutputDir}/images.
func (e *ClosetEngine) downloadImages(ctx context.Context, progress chan<- ProgressUpdate, grouping *models.Grouping, opts ExportOpts) []ImageDownloadResult {
	groups := make([]*models.Group, 0, grouping.Len())
	for _, group := range grouping.Groups() {
		if group.ImageURL != "" {
			groups = append(groups, group)
		}
	}
	if len(groups) == 0 {
		return nil
	}

	imagesDir := filepath.Join(opts.OutputDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		e.logger.Error("failed to create images directory", "error", err)
		return nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan *models.Group, len(groups))
	results := make(chan ImageDownloadResult, len(groups))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range jobs {
				data, err := opts.FetchImage(group.ImageURL)
				if err != nil {
					results <- ImageDownloadResult{Key: group.Key, URL: group.ImageURL, Error: err.Error()}
					continue
				}

				path := filepath.Join(imagesDir, safeFilename(group.Key)+".jpg")
				if err := os.WriteFile(path, data, 0644); err != nil {
					results <- ImageDownloadResult{Key: group.Key, URL: group.ImageURL, Error: err.Error()}
					continue
				}

				results <- ImageDownloadResult{Key: group.Key, URL: group.ImageURL, Path: path}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, group := range groups {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(progress, downloadImageUpdate(i+1, len(groups), group.Key))
			jobs <- group
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	downloads := make([]ImageDownloadResult, 0, len(groups))
	for dl := range results {
		completed++
		if dl.Error != "" {
			e.sendProgress(progress, downloadFailedUpdate(completed, len(groups), dl.Key, fmt.Errorf("%s", dl.Error)))
		}
		downloads = append(downloads, dl)
	}

	return downloads
}

// writeInventory renders the inventory in the requested format and
// returns the paths of the files written.
func writeInventory(closet *models.Closet, grouping *models.Grouping, imagePaths map[string]string, opts ExportOpts) ([]string, error) {
	// Embed paths relative to the output directory so the markdown
	// stays portable when the directory is moved.
	relativePaths := make(map[string]string, len(imagePaths))
	for key, path := range imagePaths {
		if rel, err := filepath.Rel(opts.OutputDir, path); err == nil {
			relativePaths[key] = rel
		} else {
			relativePaths[key] = path
		}
	}

	var (
		data []byte
		name string
		err  error
	)

	switch strings.ToLower(opts.Format) {
	case "json":
		name = "closet.json"
		data, err = shared.MarshalJSON(closet, true)
	case "csv":
		name = "inventory.csv"
		data, err = formatter.ExportToCSV(closet)
	case "markdown", "md":
		name = "README.md"
		data, err = formatter.ExportToMarkdown(grouping, "Closet Inventory", relativePaths)
	case "txt", "text":
		name = "inventory.txt"
		data, err = formatter.ExportToText(grouping, "Closet Inventory")
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", opts.Format, err)
	}

	path := filepath.Join(opts.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}

	return []string{path}, nil
}

// safeFilename narrows a source image key to filesystem-safe characters.
func safeFilename(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
