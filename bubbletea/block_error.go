package bubbletea

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/campus"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed turn. Backend errors are shown by their
// message alone.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render("Error: " + describe(b.err))
	return lipgloss.NewStyle().Width(width).Render(content)
}

func describe(err error) string {
	var up *campus.UpstreamError
	if errors.As(err, &up) {
		return up.Message
	}
	return fmt.Sprint(err)
}
