// package tasks orchestrates closet page operations against the identity and wardrobe services.
//
// The core abstraction is ClosetEngine, which coordinates image uploads, inventory refreshes,
// and bulk exports. Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/services"
	"github.com/desertthunder/closet/internal/shared"
)

// Fixed user-facing failure messages. Error details go to the log, never
// the page state.
const (
	UploadFailedMessage = "Failed to upload image. Please try again."
	FetchFailedMessage  = "Failed to fetch closet. Please try again."
)

// State is the closet page snapshot rendered by the CLI and TUI layers.
type State struct {
	Closet          *models.Closet // Last successfully fetched inventory (nil before first fetch)
	Loading         bool           // A request is currently in flight
	LastError       string         // Fixed failure message from the most recent failed operation
	UploadSucceeded bool           // Last upload completed; cleared by the next refresh
}

// Engine defines the closet page operations.
type Engine interface {
	// Upload encodes the image at path and submits it to the backend.
	// A successful upload does not refresh the inventory.
	Upload(ctx context.Context, path string, progress chan<- ProgressUpdate) error

	// Refresh fetches the full inventory and replaces the page snapshot,
	// returning the derived grouping.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*models.Grouping, error)

	// Export writes the inventory to disk in the requested format.
	Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error)

	// State returns a copy of the current page snapshot.
	State() State
}

// ClosetEngine implements [Engine] on top of the identity and wardrobe services.
//
// At most one upload or refresh runs at a time; a second request started
// while one is in flight fails with [shared.ErrRequestInFlight] instead of
// racing the first.
type ClosetEngine struct {
	identity services.Identity
	wardrobe services.Wardrobe
	logger   *log.Logger

	mu       sync.Mutex
	inFlight bool
	state    State
}

// NewClosetEngine creates an engine with the provided services.
func NewClosetEngine(identity services.Identity, wardrobe services.Wardrobe, logger *log.Logger) *ClosetEngine {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}

	return &ClosetEngine{
		identity: identity,
		wardrobe: wardrobe,
		logger:   logger,
	}
}

// State returns a copy of the current page snapshot.
func (e *ClosetEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// begin claims the single request slot and marks the page as loading.
func (e *ClosetEngine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight {
		return fmt.Errorf("%w: another request is still running", shared.ErrRequestInFlight)
	}
	e.inFlight = true
	e.state.Loading = true
	e.state.LastError = ""
	return nil
}

// finish releases the request slot and applies the outcome to the snapshot.
func (e *ClosetEngine) finish(apply func(s *State)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inFlight = false
	e.state.Loading = false
	if apply != nil {
		apply(&e.state)
	}
}

// currentUser resolves the authenticated identity, or nil when no usable
// session exists.
func (e *ClosetEngine) currentUser() *models.User {
	if e.identity == nil {
		return nil
	}
	user, err := e.identity.CurrentUser()
	if err != nil || user == nil || user.Subject == "" {
		return nil
	}
	return user
}

// Upload encodes the image at path and submits it to the backend.
//
// Without a path or an authenticated user the call is a no-op. Success
// flips UploadSucceeded without touching the inventory snapshot; the
// backend processes uploads asynchronously, so new items only appear on
// the next explicit refresh. Failure records the fixed upload message
// and leaves UploadSucceeded as it was.
func (e *ClosetEngine) Upload(ctx context.Context, path string, progress chan<- ProgressUpdate) error {
	if e.wardrobe == nil {
		return fmt.Errorf("%w: wardrobe service not initialized", shared.ErrServiceUnavailable)
	}
	if path == "" {
		return nil
	}

	user := e.currentUser()
	if user == nil {
		return nil
	}

	if err := e.begin(); err != nil {
		return err
	}

	e.sendProgress(progress, encodingUpdate(1, 2, path))

	payload, err := shared.EncodeImageFile(path, user.Subject)
	if err != nil {
		e.logger.Error("failed to encode image", "path", path, "error", err)
		e.finish(func(s *State) {
			s.LastError = UploadFailedMessage
		})
		e.sendProgress(progress, uploadFailedUpdate(2, 2))
		return err
	}

	e.sendProgress(progress, submittingUpdate(2, 2, payload.Filename))

	if err := e.wardrobe.SubmitImage(ctx, payload); err != nil {
		e.logger.Error("failed to submit image", "filename", payload.Filename, "error", err)
		e.finish(func(s *State) {
			s.LastError = UploadFailedMessage
		})
		e.sendProgress(progress, uploadFailedUpdate(2, 2))
		return err
	}

	e.finish(func(s *State) {
		s.LastError = ""
		s.UploadSucceeded = true
	})
	e.sendProgress(progress, uploadDoneUpdate(2, 2, payload.Filename))
	return nil
}

// Refresh fetches the full inventory and replaces the page snapshot.
//
// Without an authenticated user the call is a no-op. The snapshot is
// replaced wholesale on success and left untouched on failure;
// UploadSucceeded is cleared either way a successful fetch completes.
func (e *ClosetEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*models.Grouping, error) {
	if e.wardrobe == nil {
		return nil, fmt.Errorf("%w: wardrobe service not initialized", shared.ErrServiceUnavailable)
	}

	user := e.currentUser()
	if user == nil {
		return nil, nil
	}

	if err := e.begin(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchingClosetUpdate(1, 2))

	closet, err := e.wardrobe.FetchCloset(ctx, user.Subject)
	if err != nil {
		e.logger.Error("failed to fetch closet", "user", user.Subject, "error", err)
		e.finish(func(s *State) {
			s.LastError = FetchFailedMessage
		})
		return nil, err
	}

	e.sendProgress(progress, groupingUpdate(2, 2, len(closet.Items)))

	grouping := models.GroupByImage(closet.Items)
	for _, key := range grouping.MismatchedURLs() {
		e.logger.Warn("items from the same photo report different image urls", "source_image", key)
	}

	e.finish(func(s *State) {
		s.Closet = closet
		s.LastError = ""
		s.UploadSucceeded = false
	})
	e.sendProgress(progress, closetFetchedUpdate(2, 2, grouping))
	return grouping, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ClosetEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
