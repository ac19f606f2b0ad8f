// HTTP implementation of [Wardrobe] for the Smart Closet backend API.
//
// Endpoint shapes follow the deployed API Gateway: POST /images with a
// JSON upload envelope, GET /closet/{userId} returning {"items": [...]}.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeUserID strips every character outside [A-Za-z0-9] so the
// identifier fits a request path segment.
//
// This is lossy and matches the backend's own narrowing: distinct
// identifiers that collapse to the same sanitized string address the
// same closet. Kept bit-for-bit for compatibility with the deployed API.
func SanitizeUserID(userID string) string {
	return nonAlphanumeric.ReplaceAllString(userID, "")
}

// ClosetService implements the [Wardrobe] interface over HTTP.
type ClosetService struct {
	baseURL    string
	httpClient *http.Client
}

// NewClosetService creates a gateway for the backend at baseURL.
func NewClosetService(baseURL string, client *http.Client) *ClosetService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ClosetService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (s *ClosetService) Name() string {
	return "Smart Closet API"
}

// SubmitImage POSTs the encoded upload payload to /images.
//
// Success is any 2xx status; the response body is not parsed. Transport
// errors and non-success statuses both wrap [shared.ErrUploadFailed]
// without further classification.
func (s *ClosetService) SubmitImage(ctx context.Context, payload *shared.UploadPayload) error {
	if payload == nil {
		return fmt.Errorf("%w: nil upload payload", shared.ErrInvalidInput)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/images", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrUploadFailed, resp.StatusCode)
	}

	return nil
}

// FetchCloset GETs /closet/{userId} and decodes the inventory snapshot.
//
// The user identifier is sanitized with [SanitizeUserID] before being
// placed in the path. An absent or empty "items" array is a valid empty
// closet; a body that doesn't match the expected shape wraps
// [shared.ErrMalformedResponse].
func (s *ClosetService) FetchCloset(ctx context.Context, userID string) (*models.Closet, error) {
	id := SanitizeUserID(userID)
	if id == "" {
		return nil, fmt.Errorf("%w: user id is empty after sanitization", shared.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/closet/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrFetchFailed, resp.StatusCode)
	}

	var closet models.Closet
	if err := json.Unmarshal(body, &closet); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if closet.Items == nil {
		closet.Items = []models.ClothingItem{}
	}

	return &closet, nil
}
