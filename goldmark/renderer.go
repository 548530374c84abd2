package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/campus"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// minWrap is the narrowest column a nested block is wrapped to.
const minWrap = 10

type termRenderer struct {
	source []byte

	strong  lipgloss.Style
	emph    lipgloss.Style
	strike  lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	code    lipgloss.Style
	link    lipgloss.Style
}

func newRenderer(theme campus.Theme) *termRenderer {
	return &termRenderer{
		strong:  lipgloss.NewStyle().Bold(true),
		emph:    lipgloss.NewStyle().Italic(true),
		strike:  lipgloss.NewStyle().Strikethrough(true),
		heading: lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		code:    lipgloss.NewStyle().Background(color(theme.CodeBg)).Bold(true),
		link:    lipgloss.NewStyle().Foreground(color(theme.Accent)).Underline(true),
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *termRenderer) render(source []byte, width int) string {
	r.source = source
	doc := md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	r.blocks(doc, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

// blocks renders the children of n, separating siblings with a blank line.
func (r *termRenderer) blocks(n ast.Node, width int, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, width, buf)
		if c.NextSibling() != nil && c.Kind() != ast.KindHTMLBlock {
			buf.WriteString("\n")
		}
	}
}

func (r *termRenderer) block(n ast.Node, width int, buf *bytes.Buffer) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.wrapped(r.inlines(n), width, buf)

	case *ast.Heading:
		r.wrapped(r.heading.Render(r.inlines(n)), width, buf)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(r.source)); lang != "" {
			buf.WriteString(r.muted.Render(lang) + "\n")
		}
		r.codeLines(n, buf)

	case *ast.CodeBlock:
		r.codeLines(n, buf)

	case *ast.Blockquote:
		r.quote(n, width, buf)

	case *ast.List:
		r.list(n, width, 0, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(width, 40))) + "\n")

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(r.source))
		}

	default:
		r.blocks(n, width, buf)
	}
}

func (r *termRenderer) wrapped(s string, width int, buf *bytes.Buffer) {
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	buf.WriteString("\n")
}

// codeLines writes a code block verbatim behind a gutter.
func (r *termRenderer) codeLines(n ast.Node, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.WriteString(gutter)
		buf.WriteString(strings.TrimRight(string(seg.Value(r.source)), "\n"))
		buf.WriteString("\n")
	}
}

// quote renders the quoted blocks at a reduced width and prefixes every
// resulting line with a bar.
func (r *termRenderer) quote(n *ast.Blockquote, width int, buf *bytes.Buffer) {
	var inner bytes.Buffer
	r.blocks(n, max(width-2, minWrap), &inner)
	bar := r.muted.Render("▎") + " "
	for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
		buf.WriteString(bar + line + "\n")
	}
}

func (r *termRenderer) list(n *ast.List, width, depth int, buf *bytes.Buffer) {
	indent := strings.Repeat("  ", depth)
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if n.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}

		var pending strings.Builder
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				if pending.Len() > 0 {
					pending.WriteString(" ")
				}
				pending.WriteString(r.inlines(in))
			case *ast.List:
				if pending.Len() > 0 {
					r.item(indent+marker, pending.String(), width, buf)
					pending.Reset()
					marker = strings.Repeat(" ", runewidth.StringWidth(marker))
				}
				r.list(in, width, depth+1, buf)
			default:
				var nested bytes.Buffer
				r.block(ic, max(width-len(indent)-2, minWrap), &nested)
				pending.WriteString(strings.TrimRight(nested.String(), "\n"))
			}
		}
		if pending.Len() > 0 {
			r.item(indent+marker, pending.String(), width, buf)
		}
	}
}

// item writes one list entry, aligning wrapped lines under its first
// character.
func (r *termRenderer) item(prefix, content string, width int, buf *bytes.Buffer) {
	pw := runewidth.StringWidth(prefix)
	wrapped := lipgloss.NewStyle().Width(max(width-pw, minWrap)).Render(content)
	pad := strings.Repeat(" ", pw)
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
			continue
		}
		buf.WriteString(pad + line + "\n")
	}
}

// inlines returns the styled inline content of n.
func (r *termRenderer) inlines(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c, &buf)
	}
	return buf.String()
}

func (r *termRenderer) inline(n ast.Node, buf *bytes.Buffer) {
	switch n := n.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(r.source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		if n.Level == 1 {
			buf.WriteString(r.emph.Render(r.inlines(n)))
		} else {
			buf.WriteString(r.strong.Render(r.inlines(n)))
		}

	case *east.Strikethrough:
		buf.WriteString(r.strike.Render(r.inlines(n)))

	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.inlines(n)))

	case *ast.Link:
		r.target(r.inlines(n), string(n.Destination), buf)

	case *ast.Image:
		r.target(r.inlines(n), string(n.Destination), buf)

	case *ast.AutoLink:
		buf.WriteString(r.link.Render(string(n.URL(r.source))))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(r.source))
		}

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(c, buf)
		}
	}
}

// target writes a link or image as its label followed by the destination.
// A label equal to the destination is written once.
func (r *termRenderer) target(label, dest string, buf *bytes.Buffer) {
	if label == "" || label == dest {
		buf.WriteString(r.link.Render(dest))
		return
	}
	buf.WriteString(r.link.Render(label))
	buf.WriteString(" ")
	buf.WriteString(r.muted.Render("(" + dest + ")"))
}
