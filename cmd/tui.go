package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/closet/internal/shared"
	"github.com/desertthunder/closet/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive gallery over the closet inventory.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.identity == nil || !r.identity.IsAuthenticated() {
		return fmt.Errorf("%w: run `closet auth login` first", shared.ErrNotAuthenticated)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: closet engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/closet-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
