package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/goldmark"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders a streamed reply as markdown. The stream hands
// over the whole reply on every frame, so the block replaces its text rather
// than appending. Paragraphs before the last blank line outside a code fence
// are rendered once per width and cached; only the tail is re-rendered.
type AssistantTextBlock struct {
	text  string
	theme campus.Theme

	stable        string
	stableByWidth map[int]string
}

// NewAssistantTextBlock creates an empty reply block.
func NewAssistantTextBlock(theme campus.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{
		theme:         theme,
		stableByWidth: make(map[int]string),
	}
}

// SetText replaces the reply with text.
func (b *AssistantTextBlock) SetText(text string) {
	if !strings.HasPrefix(text, b.stable) {
		b.stable = ""
		clear(b.stableByWidth)
	}
	b.text = text
	b.promote()
}

// Text returns the reply as last set.
func (b *AssistantTextBlock) Text() string { return b.text }

func (b *AssistantTextBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantTextBlock) View(width int) string {
	if width <= 0 {
		width = goldmark.DefaultWidth
	}
	stable := b.renderStable(width)
	tail := b.tail()
	if hasUnclosedFence(tail) {
		// Close the fence for display only.
		tail += "\n```"
	}
	if strings.TrimSpace(tail) == "" {
		return stable
	}
	rendered := goldmark.Render(tail, width, b.theme)
	if strings.TrimSpace(rendered) == "" {
		return stable
	}
	if stable == "" {
		return rendered
	}
	return strings.TrimRight(stable, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

// promote moves the stable prefix forward to the last "\n\n" that is not
// inside an open code fence.
func (b *AssistantTextBlock) promote() {
	for end := len(b.text); ; {
		idx := strings.LastIndex(b.text[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := b.text[:idx]
		if !hasUnclosedFence(candidate) {
			if candidate != b.stable {
				b.stable = candidate
				clear(b.stableByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderStable(width int) string {
	if b.stable == "" {
		return ""
	}
	if cached, ok := b.stableByWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.stable, width, b.theme)
	b.stableByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) tail() string {
	if b.stable == "" {
		return b.text
	}
	return strings.TrimPrefix(b.text, b.stable+"\n\n")
}

// hasUnclosedFence reports an odd number of "```" in s. Triple backticks
// inside inline code are counted too.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
