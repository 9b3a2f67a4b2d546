package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/michida/michida/internal/shared"
	"github.com/michida/michida/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive feed browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/michida-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	r.sink = &logSink{logger: fileLogger}

	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, cmd.Int64("post")); err != nil {
		return err
	}
	defer app.Close()

	model := ui.NewModel(ctx, app)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
