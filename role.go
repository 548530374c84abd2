package campus

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)
