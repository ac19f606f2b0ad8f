package tasks

import (
	"fmt"
	"path/filepath"

	"github.com/desertthunder/closet/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	EncodeImage Phase = iota
	SubmitImage
	FetchCloset
	GroupItems
	DownloadImage
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case EncodeImage:
		return "encode_image"
	case SubmitImage:
		return "submit_image"
	case FetchCloset:
		return "fetch_closet"
	case GroupItems:
		return "group_items"
	case DownloadImage:
		return "download_image"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func encodingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EncodeImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Encoding %s...", filepath.Base(path)),
	}
}

func submittingUpdate(step, total int, filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Uploading %s...", filename),
	}
}

func uploadDoneUpdate(step, total int, filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ Uploaded %s", filename),
	}
}

func uploadFailedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitImage,
		Step:    step,
		Total:   total,
		Message: UploadFailedMessage,
	}
}

func fetchingClosetUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCloset,
		Step:    step,
		Total:   total,
		Message: "Fetching closet...",
	}
}

func groupingUpdate(step, total, itemCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GroupItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Grouping %d items by photo...", itemCount),
	}
}

func closetFetchedUpdate(step, total int, grouping *models.Grouping) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCloset,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Closet loaded: %d photos", grouping.Len()),
		Data:    grouping,
	}
}

func downloadImageUpdate(step, total int, key string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading photo %s...", step, total, key),
	}
}

func downloadFailedUpdate(step, total int, key string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, key, err),
	}
}

func writeExportUpdate(step, total int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Writing %s export...", format),
	}
}

func exportDoneUpdate(step, total int, dir string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ Exported %d files to %s", files, dir),
	}
}
