package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/closet/internal/shared"
	tu "github.com/desertthunder/closet/internal/testing"
)

func TestExport(t *testing.T) {
	newExportEngine := func() *ClosetEngine {
		return newTestEngine(authedIdentity(), &tu.MockWardrobe{Closet: tu.SeedCloset()})
	}

	t.Run("JSON Export", func(t *testing.T) {
		engine := newExportEngine()
		dir := t.TempDir()

		result, err := engine.Export(context.Background(), nil, ExportOpts{Format: "json", OutputDir: dir})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.ExportID == "" {
			t.Error("expected a generated export id")
		}
		if result.TotalItems != 3 || result.TotalGroups != 2 {
			t.Errorf("unexpected totals: %+v", result)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "closet.json"))
		raw := tu.MustReadFile(t, filepath.Join(dir, "closet.json"))
		if !strings.Contains(raw, "jacket") {
			t.Error("expected inventory items in JSON export")
		}

		tu.AssertFileExists(t, result.ManifestPath)
		var manifest ExportResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if manifest.ExportID != result.ExportID {
			t.Errorf("manifest export id mismatch: %s != %s", manifest.ExportID, result.ExportID)
		}
	})

	t.Run("CSV Export", func(t *testing.T) {
		engine := newExportEngine()
		dir := t.TempDir()

		result, err := engine.Export(context.Background(), nil, ExportOpts{Format: "csv", OutputDir: dir})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Files))
		}
		raw := tu.MustReadFile(t, filepath.Join(dir, "inventory.csv"))
		if !strings.HasPrefix(raw, "ID,Type,Color") {
			t.Errorf("unexpected CSV header: %s", raw)
		}
	})

	t.Run("Markdown Export With Images", func(t *testing.T) {
		engine := newExportEngine()
		dir := t.TempDir()

		var fetched []string
		result, err := engine.Export(context.Background(), nil, ExportOpts{
			Format:        "markdown",
			OutputDir:     dir,
			IncludeImages: true,
			FetchImage: func(url string) ([]byte, error) {
				fetched = append(fetched, url)
				return []byte("jpeg bytes"), nil
			},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.DownloadedImages != 2 {
			t.Errorf("expected 2 downloaded images, got %d", result.DownloadedImages)
		}
		if len(fetched) != 2 {
			t.Errorf("expected 2 fetches, got %v", fetched)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "images", "imgA.jpg"))
		tu.AssertFileExists(t, filepath.Join(dir, "images", "imgB.jpg"))

		md := tu.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(md, filepath.Join("images", "imgA.jpg")) {
			t.Errorf("expected local image embed, got:\n%s", md)
		}
	})

	t.Run("Failed Downloads Are Recorded", func(t *testing.T) {
		engine := newExportEngine()
		dir := t.TempDir()

		result, err := engine.Export(context.Background(), nil, ExportOpts{
			Format:        "txt",
			OutputDir:     dir,
			IncludeImages: true,
			FetchImage: func(url string) ([]byte, error) {
				if strings.Contains(url, "imgB") {
					return nil, errors.New("404 not found")
				}
				return []byte("jpeg bytes"), nil
			},
		})
		if err != nil {
			t.Fatalf("expected export to complete despite download failure, got %v", err)
		}

		if result.DownloadedImages != 1 {
			t.Errorf("expected 1 downloaded image, got %d", result.DownloadedImages)
		}
		if len(result.FailedDownloads) != 1 || result.FailedDownloads[0].Key != "imgB" {
			t.Errorf("unexpected failed downloads: %+v", result.FailedDownloads)
		}
	})

	t.Run("Reports Progress", func(t *testing.T) {
		engine := newExportEngine()
		progress := make(chan ProgressUpdate, 20)

		_, err := engine.Export(context.Background(), progress, ExportOpts{Format: "json", OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		seen := map[Phase]bool{}
		for update := range progress {
			seen[update.Phase] = true
		}
		if !seen[FetchCloset] || !seen[WriteExport] {
			t.Errorf("expected fetch and write phases, got %v", seen)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		engine := newExportEngine()

		_, err := engine.Export(context.Background(), nil, ExportOpts{Format: "yaml", OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Requires Authentication", func(t *testing.T) {
		engine := newTestEngine(&tu.MockIdentity{}, &tu.MockWardrobe{})

		_, err := engine.Export(context.Background(), nil, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Fetch Failure Aborts Export", func(t *testing.T) {
		wardrobe := &tu.MockWardrobe{FetchErr: fmt.Errorf("%w: status 502", shared.ErrFetchFailed)}
		engine := newTestEngine(authedIdentity(), wardrobe)

		_, err := engine.Export(context.Background(), nil, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
	})

	t.Run("Releases Request Slot", func(t *testing.T) {
		engine := newExportEngine()

		if _, err := engine.Export(context.Background(), nil, ExportOpts{Format: "json", OutputDir: t.TempDir()}); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if _, err := engine.Refresh(context.Background(), nil); err != nil {
			t.Errorf("expected slot to be free after export, got %v", err)
		}
	})
}

func TestSafeFilename(t *testing.T) {
	tc := map[string]string{
		"imgA":                "imgA",
		"uploads/2024/a.jpg":  "uploads_2024_a.jpg",
		"key with spaces":     "key_with_spaces",
		"already-safe_1.jpeg": "already-safe_1.jpeg",
	}

	for in, want := range tc {
		if got := safeFilename(in); got != want {
			t.Errorf("safeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
