package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/closet/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser authorization flow and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return fmt.Errorf("%w: configure auth0 credentials first, see `closet setup config`", shared.ErrMissingCredentials)
	}

	r.logger.Info("starting login flow", "provider", r.identity.Name())
	r.writePlain("Opening your browser to sign in...\n")

	user, err := r.identity.Login(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("login complete", "subject", user.Subject)
	return r.writePlain("✓ Signed in as %s (%s)\n", user.Name, user.Email)
}

// AuthSignup runs the browser signup flow and stores the session.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return fmt.Errorf("%w: configure auth0 credentials first, see `closet setup config`", shared.ErrMissingCredentials)
	}

	r.logger.Info("starting signup flow", "provider", r.identity.Name())
	r.writePlain("Opening your browser to create an account...\n")

	user, err := r.identity.Signup(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("signup complete", "subject", user.Subject)
	return r.writePlain("✓ Signed up as %s (%s)\n", user.Name, user.Email)
}

// AuthLogout removes the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return fmt.Errorf("%w: no identity service configured", shared.ErrMissingCredentials)
	}

	if err := r.identity.Logout(); err != nil {
		return err
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami prints the stored user profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return fmt.Errorf("%w: no identity service configured", shared.ErrMissingCredentials)
	}

	user, err := r.identity.CurrentUser()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Signed in as: %s\n", user.Name)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	r.writePlain("Subject: %s\n", user.Subject)
	return nil
}

// AuthStatus reports whether a usable session exists.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil {
		return r.writePlain("✗ No identity service configured\n")
	}

	if r.identity.IsAuthenticated() {
		return r.writePlain("✓ Signed in\n")
	}
	return r.writePlain("✗ Not signed in. Run `closet auth login`\n")
}
