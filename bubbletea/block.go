package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// MessageBlock is one entry of the chat transcript. The model passes the
// content width to View on every render, so blocks never track the
// terminal size themselves.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}
