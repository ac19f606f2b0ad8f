// package services defines interfaces for the closet client's external collaborators
//
// The identity provider (Auth0) and the Smart Closet backend API
package services

import (
	"context"

	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
)

// Identity defines the capability set exposed by the identity provider.
//
// Implementations own the login redirect/callback dance and the session
// snapshot; callers treat both as opaque.
type Identity interface {
	// Login runs the interactive authorization flow and returns the
	// authenticated user's identity snapshot.
	Login(ctx context.Context) (*models.User, error)

	// Signup runs the same flow starting at the provider's signup
	// screen. A successful signup leaves the user signed in.
	Signup(ctx context.Context) (*models.User, error)

	// Logout discards the current session. Idempotent.
	Logout() error

	// CurrentUser returns the identity snapshot for the active session,
	// or an error wrapping shared.ErrNotAuthenticated when there is none.
	CurrentUser() (*models.User, error)

	// IsAuthenticated reports whether a usable session exists.
	IsAuthenticated() bool

	// Name returns the provider's display name (e.g. "Auth0")
	Name() string
}

// Wardrobe defines the two operations the closet backend exposes.
//
// Both are stateless request/response calls: no retries, batching, or
// timeout policy beyond the transport's defaults.
type Wardrobe interface {
	// SubmitImage issues the image create request. Success is solely "no
	// error"; the response body is ignored.
	SubmitImage(ctx context.Context, payload *shared.UploadPayload) error

	// FetchCloset retrieves the current inventory snapshot for a user.
	FetchCloset(ctx context.Context, userID string) (*models.Closet, error)

	// Name returns the backend's display name
	Name() string
}
