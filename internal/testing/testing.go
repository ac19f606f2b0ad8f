// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
)

// MockIdentity is a test double for the identity provider capability set.
type MockIdentity struct {
	User      *models.User
	LoginErr  error
	LogoutErr error
	Logouts   int
	Signups   int
}

func (m *MockIdentity) Login(ctx context.Context) (*models.User, error) {
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	return m.User, nil
}

func (m *MockIdentity) Signup(ctx context.Context) (*models.User, error) {
	m.Signups++
	return m.Login(ctx)
}

func (m *MockIdentity) Logout() error {
	m.Logouts++
	return m.LogoutErr
}

func (m *MockIdentity) CurrentUser() (*models.User, error) {
	if m.User == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return m.User, nil
}

func (m *MockIdentity) IsAuthenticated() bool { return m.User != nil }

func (m *MockIdentity) Name() string { return "mock-identity" }

// MockWardrobe is a test double for the closet backend gateway.
type MockWardrobe struct {
	Closet    *models.Closet
	SubmitErr error
	FetchErr  error
	Submitted []*shared.UploadPayload
	Fetches   int
}

func (m *MockWardrobe) SubmitImage(ctx context.Context, payload *shared.UploadPayload) error {
	if m.SubmitErr != nil {
		return m.SubmitErr
	}
	m.Submitted = append(m.Submitted, payload)
	return nil
}

func (m *MockWardrobe) FetchCloset(ctx context.Context, userID string) (*models.Closet, error) {
	m.Fetches++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.Closet == nil {
		return &models.Closet{Items: []models.ClothingItem{}}, nil
	}
	return m.Closet, nil
}

func (m *MockWardrobe) Name() string { return "mock-wardrobe" }

// SeedItems returns a deterministic three-item inventory spanning two
// source images, matching the canonical grouping scenario.
func SeedItems() []models.ClothingItem {
	return []models.ClothingItem{
		{
			ID:             "1",
			Type:           "jacket",
			Color:          "black",
			Material:       "leather",
			Style:          "biker",
			ExtraInfo:      "slightly worn",
			SourceImageKey: "imgA",
			ImageURL:       "https://cdn.example.com/imgA.jpg",
		},
		{
			ID:             "2",
			Type:           "scarf",
			Color:          "red",
			Material:       "wool",
			Style:          "casual",
			SourceImageKey: "imgA",
			ImageURL:       "https://cdn.example.com/imgA.jpg",
		},
		{
			ID:             "3",
			Type:           "dress",
			Color:          "green",
			Material:       "silk",
			Style:          "formal",
			SourceImageKey: "imgB",
			ImageURL:       "https://cdn.example.com/imgB.jpg",
		},
	}
}

// SeedCloset wraps [SeedItems] in a snapshot.
func SeedCloset() *models.Closet {
	return &models.Closet{Items: SeedItems()}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
