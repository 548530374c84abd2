package campus

import "context"

// ChatService is the chat half of the remote API.
type ChatService interface {
	// OpenChatStream posts req to the streaming endpoint and returns the
	// reply as a pull-based stream. The caller must Close it.
	OpenChatStream(ctx context.Context, req ChatRequest) (ChatStream, error)
	// StreamChat posts req, feeds the reply to h as it arrives and returns
	// the full text. The stream is released on every exit path.
	StreamChat(ctx context.Context, req ChatRequest, h StreamHandler) (string, error)
	// CallChat is the non-streaming variant; it waits for the full reply.
	CallChat(ctx context.Context, mode Mode, userMessage string) (string, error)

	Messages(ctx context.Context, sessionID int64) ([]ChatMessage, error)
	Sessions(ctx context.Context) ([]ChatSession, error)
	AddMessage(ctx context.Context, d MessageDraft) error
	AddSession(ctx context.Context, d SessionDraft) (int64, error)
	DeleteSession(ctx context.Context, sessionID int64) error
}

// CommunityService is the community feed half of the remote API.
type CommunityService interface {
	List(ctx context.Context) ([]Post, error)
	Search(ctx context.Context, q PageQuery) (PostPage, error)
	Page(ctx context.Context, q PageQuery) (PostPage, error)
	Post(ctx context.Context, id string) (Post, error)
	// UploadImages sends files to the backend and returns their public URLs.
	UploadImages(ctx context.Context, files []Upload) ([]string, error)
	AddPost(ctx context.Context, d PostDraft) error
	// Like sets or clears the caller's like on a post.
	Like(ctx context.Context, id string, liked bool) error
	// Collect sets or clears the caller's bookmark on a post.
	Collect(ctx context.Context, id string, collected bool) error
}

// UserService is the account half of the remote API.
type UserService interface {
	Login(ctx context.Context, c Credentials) (LoginResult, error)
	Info(ctx context.Context) (UserInfo, error)
}

// Store is local key/value storage that survives between runs.
// Get reports ok=false for a missing key rather than an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

// Well-known Store keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// Keys lists every key campus writes to a Store.
var Keys = []string{KeyToken, KeyUsername}

// TokenSource yields the bearer token for outgoing requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, error)

// Token calls f.
func (f TokenFunc) Token() (string, error) { return f() }
