package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/campus"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the campus chat TUI.
type Model struct {
	// Input is the question input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation. Exported for test access.
	Viewport viewport.Model

	ask       AskFunc
	sessionID int64 // 0 until the first turn creates a session
	mode      campus.Mode
	history   []campus.ChatMessage
	theme     campus.Theme
	styles    Styles

	blocks []MessageBlock
	reply  *AssistantTextBlock // receives the running turn

	running bool
	cancel  context.CancelFunc
	replyCh chan string
	doneCh  chan TurnDoneMsg
	err     error
	ready   bool
}

// Option configures a [Model].
type Option func(*Model)

// WithSession resumes session id, showing its stored messages.
func WithSession(id int64, history []campus.ChatMessage) Option {
	return func(m *Model) {
		m.sessionID = id
		m.history = history
	}
}

// WithMode sets the initial reasoning mode.
func WithMode(mode campus.Mode) Option {
	return func(m *Model) { m.mode = mode }
}

// New creates a TUI Model that runs turns through ask.
func New(ask AskFunc, theme campus.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask anything..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:  ti,
		ask:    ask,
		theme:  theme,
		styles: NewStyles(theme),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Running returns whether a turn is in progress.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last turn, if any.
func (m Model) Err() error { return m.err }

// SessionID returns the session turns are recorded in. Zero means the next
// turn starts a new session.
func (m Model) SessionID() int64 { return m.sessionID }

// Mode returns the reasoning mode used for the next turn.
func (m Model) Mode() campus.Mode { return m.mode }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		if m.reply != nil {
			m.reply.SetText(msg.Text)
		}
		m = m.refresh()
		if m.replyCh != nil {
			return m, listenForReply(m.replyCh, m.doneCh)
		}
		return m, nil

	case TurnDoneMsg:
		m = m.finishTurn(msg)
		cmd := m.Input.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const chrome = 4 // status line, input line and the newlines between them
	vpHeight := max(msg.Height-chrome, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderHistory()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.running && m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)

	case tea.KeyTab:
		if !m.running {
			m.mode = toggle(m.mode)
		}
		return m, nil

	case tea.KeyCtrlN:
		if !m.running {
			m.sessionID = 0
			m.blocks = nil
			m.reply = nil
			m.err = nil
			m = m.refresh()
		}
		return m, nil
	}

	if m.running {
		return m, nil
	}

	// Character keys go to the input only; 'j' and 'k' would otherwise
	// scroll the viewport while typing.
	var cmd tea.Cmd
	var cmds []tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil

	m.reply = NewAssistantTextBlock(m.theme)
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles), m.reply)
	m = m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.replyCh = make(chan string, 16)
	m.doneCh = make(chan TurnDoneMsg, 1)
	m.running = true

	req := campus.AskRequest{SessionID: m.sessionID, Mode: m.mode, Text: text}
	return m, tea.Batch(
		startTurn(ctx, m.ask, req, m.replyCh, m.doneCh),
		listenForReply(m.replyCh, m.doneCh),
	)
}

func (m Model) finishTurn(msg TurnDoneMsg) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.replyCh = nil
	m.doneCh = nil

	if msg.Result.SessionID != 0 {
		m.sessionID = msg.Result.SessionID
	}
	if m.reply != nil && msg.Result.Reply != "" {
		m.reply.SetText(msg.Result.Reply)
	}
	m.reply = nil
	if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
		m.err = msg.Err
		m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
	}
	return m.refresh()
}

// renderHistory creates blocks for the stored messages of a resumed session.
func (m Model) renderHistory() Model {
	for _, msg := range m.history {
		switch msg.Role {
		case campus.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case campus.RoleAI:
			b := NewAssistantTextBlock(m.theme)
			b.SetText(msg.Content)
			m.blocks = append(m.blocks, b)
		}
	}
	m.history = nil
	return m
}

func (m Model) refresh() Model {
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	var parts []string
	for _, block := range m.blocks {
		if v := block.View(m.Viewport.Width); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) statusLine() string {
	badge := m.styles.Muted.Render("[standard]")
	if m.mode == campus.ModeDeepThinking {
		badge = m.styles.Thinking.Render("[deep thinking]")
	}
	session := "new session"
	if m.sessionID != 0 {
		session = fmt.Sprintf("session %d", m.sessionID)
	}
	prefix := badge + " " + m.styles.Accent.Render(session) + "  "

	switch {
	case m.running:
		return prefix + m.styles.Muted.Render("Generating... Esc to stop")
	case m.err != nil:
		return prefix + m.styles.Error.Render("Error: "+describe(m.err))
	default:
		return prefix + m.styles.Muted.Render("Enter to send, Tab to switch mode, Ctrl+N for a new session, Ctrl+C to quit")
	}
}

func toggle(mode campus.Mode) campus.Mode {
	if mode == campus.ModeDeepThinking {
		return campus.ModeStandard
	}
	return campus.ModeDeepThinking
}

// startTurn runs ask in a goroutine and reports its result on doneCh once
// every reply update has been delivered.
func startTurn(ctx context.Context, ask AskFunc, req campus.AskRequest, replyCh chan<- string, doneCh chan<- TurnDoneMsg) tea.Cmd {
	return func() tea.Msg {
		res, err := ask(ctx, req, campus.StreamHandler{
			OnContent: func(text string) {
				select {
				case replyCh <- text:
				case <-ctx.Done():
				}
			},
		})
		close(replyCh)
		doneCh <- TurnDoneMsg{Result: res, Err: err}
		return nil
	}
}

// listenForReply waits for the next reply update. When the channel closes
// it returns the turn result from doneCh.
func listenForReply(ch <-chan string, doneCh <-chan TurnDoneMsg) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return ReplyMsg{Text: text}
	}
}
