package campus

import "time"

// ContentType is the media kind of a chat message.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVoice ContentType = "voice"
)

// ChatMessage is one stored message of a chat session.
type ChatMessage struct {
	ID           int64
	SessionID    int64
	Role         Role
	Content      string
	ContentType  ContentType
	AudioURL     string // text-to-speech audio, empty when absent
	ThinkingMode Mode
	TokenUsage   int
	CreatedAt    time.Time
}

// MessageDraft is the record appended to a session's history.
type MessageDraft struct {
	SessionID int64
	Role      Role
	Content   string
}
