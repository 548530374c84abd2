// Package goldmark renders markdown to styled terminal text using goldmark
// for parsing and lipgloss for styling. Assistant replies and community post
// bodies both go through [Render].
package goldmark

import (
	"github.com/fwojciec/campus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultWidth is used when the caller passes a non-positive width.
const DefaultWidth = 80

// md is shared by all renders. goldmark parsers are safe for concurrent
// use once built.
var md = goldmark.New(goldmark.WithExtensions(
	extension.Strikethrough,
	extension.Linkify,
))

// Render parses source and returns it styled for a terminal of the given
// width. Paragraphs, quotes and list items are word-wrapped; code blocks
// keep their lines as written. Escape sequences in source are stripped
// before parsing.
func Render(source string, width int, theme campus.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return newRenderer(theme).render([]byte(campus.Sanitize(source)), width)
}
