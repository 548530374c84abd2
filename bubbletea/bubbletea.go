// Package bubbletea provides a Bubble Tea TUI for chatting with the campus
// assistant.
package bubbletea

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/campus"
)

// AskFunc runs one streaming chat turn. OnContent receives the full reply
// accumulated so far. The function blocks until the reply completes, fails
// or ctx is canceled. [campus.Assistant.Ask] satisfies it.
type AskFunc func(ctx context.Context, req campus.AskRequest, h campus.StreamHandler) (campus.AskResult, error)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Canceling ctx quits the program and is not an error.
func Run(ctx context.Context, m Model) error {
	return run(ctx, m, tea.WithAltScreen())
}

func run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append(opts, tea.WithContext(ctx))...)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// ReplyMsg carries the reply accumulated so far for the running turn.
type ReplyMsg struct {
	Text string
}

// TurnDoneMsg signals that a turn has finished.
type TurnDoneMsg struct {
	Result campus.AskResult
	Err    error
}
