package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
	tu "github.com/desertthunder/closet/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(identity *tu.MockIdentity, wardrobe *tu.MockWardrobe) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Identity: identity,
		Wardrobe: wardrobe,
		Logger:   shared.NewLogger(io.Discard),
		Output:   output,
	})
	return runner, output
}

func runCLI(t *testing.T, r *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{Name: "closet", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"closet"}, args...))
}

func signedIn() *tu.MockIdentity {
	return &tu.MockIdentity{User: &models.User{Subject: "auth0|abc", Name: "Ada", Email: "ada@example.com"}}
}

func imageFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestUploadCommand(t *testing.T) {
	t.Run("Successful Upload", func(t *testing.T) {
		wardrobe := &tu.MockWardrobe{}
		runner, output := newTestRunner(signedIn(), wardrobe)

		if err := runCLI(t, runner, "upload", imageFixture(t)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(wardrobe.Submitted) != 1 {
			t.Fatalf("expected 1 submission, got %d", len(wardrobe.Submitted))
		}
		if !strings.Contains(output.String(), "✓ Image uploaded. Refresh your closet to see new items.") {
			t.Errorf("expected success notice, got:\n%s", output.String())
		}
		if wardrobe.Fetches != 0 {
			t.Error("upload must not fetch the closet")
		}
	})

	t.Run("Missing Path Argument", func(t *testing.T) {
		runner, _ := newTestRunner(signedIn(), &tu.MockWardrobe{})

		err := runCLI(t, runner, "upload")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Not Signed In", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockIdentity{}, &tu.MockWardrobe{})

		err := runCLI(t, runner, "upload", imageFixture(t))
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Backend Failure Prints Fixed Message", func(t *testing.T) {
		wardrobe := &tu.MockWardrobe{SubmitErr: errors.New("boom")}
		runner, output := newTestRunner(signedIn(), wardrobe)

		if err := runCLI(t, runner, "upload", imageFixture(t)); err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(output.String(), "Failed to upload image. Please try again.") {
			t.Errorf("expected fixed failure message, got:\n%s", output.String())
		}
	})
}

func TestFetchCommand(t *testing.T) {
	t.Run("Renders Items Grouped By Photo", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{Closet: tu.SeedCloset()})

		if err := runCLI(t, runner, "fetch"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()

		if !strings.Contains(result, "imgA (2 items)") || !strings.Contains(result, "imgB (1 items)") {
			t.Errorf("expected group headers, got:\n%s", result)
		}
		if !strings.Contains(result, "black jacket (leather, biker)") {
			t.Errorf("expected item description, got:\n%s", result)
		}
		if !strings.Contains(result, "Details: slightly worn") {
			t.Errorf("expected extra info line, got:\n%s", result)
		}
		if strings.Count(result, "Details:") != 1 {
			t.Errorf("details line should appear only for items with extra info:\n%s", result)
		}
	})

	t.Run("Empty Closet", func(t *testing.T) {
		wardrobe := &tu.MockWardrobe{Closet: &models.Closet{Items: []models.ClothingItem{}}}
		runner, output := newTestRunner(signedIn(), wardrobe)

		if err := runCLI(t, runner, "fetch"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Your closet is empty") {
			t.Errorf("expected empty closet message, got:\n%s", output.String())
		}
	})

	t.Run("JSON Output", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{Closet: tu.SeedCloset()})

		if err := runCLI(t, runner, "fetch", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"clothing_type":"jacket"`) {
			t.Errorf("expected compact JSON inventory, got:\n%s", output.String())
		}
	})

	t.Run("Save Snapshot", func(t *testing.T) {
		runner, _ := newTestRunner(signedIn(), &tu.MockWardrobe{Closet: tu.SeedCloset()})
		savePath := filepath.Join(t.TempDir(), "closet.json")

		if err := runCLI(t, runner, "fetch", "--save", savePath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, savePath)
		if !strings.Contains(tu.MustReadFile(t, savePath), "jacket") {
			t.Error("expected saved snapshot to contain inventory")
		}
	})

	t.Run("Fetch Failure Prints Fixed Message", func(t *testing.T) {
		wardrobe := &tu.MockWardrobe{FetchErr: errors.New("502")}
		runner, output := newTestRunner(signedIn(), wardrobe)

		if err := runCLI(t, runner, "fetch"); err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(output.String(), "Failed to fetch closet. Please try again.") {
			t.Errorf("expected fixed failure message, got:\n%s", output.String())
		}
	})

	t.Run("Not Signed In", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockIdentity{}, &tu.MockWardrobe{})

		err := runCLI(t, runner, "fetch")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("JSON Export", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{Closet: tu.SeedCloset()})
		dir := filepath.Join(t.TempDir(), "export")

		if err := runCLI(t, runner, "export", "--format", "json", "--output", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "closet.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(output.String(), "Export Complete") {
			t.Errorf("expected summary, got:\n%s", output.String())
		}
	})

	t.Run("Not Signed In", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockIdentity{}, &tu.MockWardrobe{})

		err := runCLI(t, runner, "export")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "login"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Signed in as Ada") {
			t.Errorf("expected login confirmation, got:\n%s", output.String())
		}
	})

	t.Run("Login Failure", func(t *testing.T) {
		identity := &tu.MockIdentity{LoginErr: shared.ErrAuthFailed}
		runner, _ := newTestRunner(identity, &tu.MockWardrobe{})

		err := runCLI(t, runner, "auth", "login")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Signup", func(t *testing.T) {
		identity := signedIn()
		runner, output := newTestRunner(identity, &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "signup"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if identity.Signups != 1 {
			t.Errorf("expected 1 signup call, got %d", identity.Signups)
		}
		if !strings.Contains(output.String(), "✓ Signed up as Ada") {
			t.Errorf("expected signup confirmation, got:\n%s", output.String())
		}
	})

	t.Run("Logout", func(t *testing.T) {
		identity := signedIn()
		runner, output := newTestRunner(identity, &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if identity.Logouts != 1 {
			t.Errorf("expected 1 logout call, got %d", identity.Logouts)
		}
		if !strings.Contains(output.String(), "✓ Signed out") {
			t.Errorf("expected logout confirmation, got:\n%s", output.String())
		}
	})

	t.Run("Whoami", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "whoami"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Ada") || !strings.Contains(result, "auth0|abc") {
			t.Errorf("expected user details, got:\n%s", result)
		}
	})

	t.Run("Whoami JSON", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "whoami", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"sub":"auth0|abc"`) {
			t.Errorf("expected JSON profile, got:\n%s", output.String())
		}
	})

	t.Run("Status", func(t *testing.T) {
		runner, output := newTestRunner(signedIn(), &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Signed in") {
			t.Errorf("expected signed-in status, got:\n%s", output.String())
		}
	})

	t.Run("Status When Signed Out", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockIdentity{}, &tu.MockWardrobe{})

		if err := runCLI(t, runner, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✗ Not signed in") {
			t.Errorf("expected signed-out status, got:\n%s", output.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("Creates Config File", func(t *testing.T) {
		runner, output := newTestRunner(&tu.MockIdentity{}, &tu.MockWardrobe{})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runCLI(t, runner, "setup", "config", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "[credentials.auth0]") {
			t.Error("expected template contents in config file")
		}
		if !strings.Contains(output.String(), "✓ Created") {
			t.Errorf("expected confirmation, got:\n%s", output.String())
		}
	})

	t.Run("Refuses To Overwrite", func(t *testing.T) {
		runner, _ := newTestRunner(&tu.MockIdentity{}, &tu.MockWardrobe{})
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("existing"), 0644)

		if err := runCLI(t, runner, "setup", "config", "--output", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
