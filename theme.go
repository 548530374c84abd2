package campus

// Theme maps UI roles to ANSI color indices (0-15) so the terminal's own
// palette decides the actual colors.
type Theme struct {
	UserMsg  int // user question accent
	AIMsg    int // assistant reply header
	Thinking int // deep-thinking mode badge
	Error    int
	Success  int
	Muted    int // status line, placeholders, timestamps
	CodeBg   int
	Accent   int // headings, links, session titles
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		AIMsg:    6,
		Thinking: 3,
		Error:    1,
		Success:  2,
		Muted:    8,
		CodeBg:   0,
		Accent:   5,
	}
}
