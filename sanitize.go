package campus

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes backend-supplied text safe to print to a terminal. Escape
// sequences are stripped and CRLF becomes LF. Every other control character
// except tab and newline is dropped, so a post or reply cannot move the
// cursor or rewrite earlier output.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, s)
}
