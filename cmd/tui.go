package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive movie browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}
	if r.client != nil && !r.client.Session().Authenticated() {
		return fmt.Errorf("%w: run 'myflix auth login' first", shared.ErrNotAuthenticated)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/myflix-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	if r.client != nil {
		r.client.SetLogger(shared.WithLogger(fileLogger, "component", "api"))
	}

	model := ui.NewModel(ctx, r.service, r.engine)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := model.Err(); err != nil {
		r.logger.Error("tui exited with error", "error", err)
	}
	return nil
}
