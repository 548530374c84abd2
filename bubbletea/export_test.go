package bubbletea

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// StatusLine exports statusLine for testing.
func StatusLine(m Model) string {
	return m.statusLine()
}

// RunHeadless runs the program without a terminal.
func RunHeadless(ctx context.Context, m Model) error {
	return run(ctx, m, tea.WithInput(nil), tea.WithOutput(io.Discard))
}
