package campus

import "time"

// Mode selects the reasoning profile used by the backend model.
type Mode int

const (
	ModeStandard     Mode = 0
	ModeDeepThinking Mode = 1
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeDeepThinking:
		return "thinking"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "standard":
		return ModeStandard, true
	case "thinking":
		return ModeDeepThinking, true
	default:
		return ModeStandard, false
	}
}

// ChatSession is a conversation thread in the user's history.
type ChatSession struct {
	ID        int64
	UserID    int64
	Title     string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionDraft is the input for creating a chat session.
type SessionDraft struct {
	UserID int64
	Title  string
}
