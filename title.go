package campus

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MaxTitleGraphemes caps the length of a session title derived from a message.
const MaxTitleGraphemes = 30

// SessionTitle derives a history title from the first message of a chat.
// Whitespace runs collapse to single spaces and the result is cut at a
// grapheme cluster boundary, so emoji and combining marks stay intact.
func SessionTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	var b strings.Builder
	g := uniseg.NewGraphemes(title)
	for n := 0; g.Next(); n++ {
		if n == MaxTitleGraphemes {
			b.WriteString("…")
			break
		}
		b.WriteString(g.Str())
	}
	return b.String()
}
