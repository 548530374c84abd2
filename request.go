package campus

// ChatRequest describes a single chat call.
type ChatRequest struct {
	Mode        Mode
	UserMessage string
	SessionID   *int64 // nil when the call is not bound to a session
}

// Default paging for the community feed.
const (
	DefaultPageNum  = 1
	DefaultPageSize = 5
)

// PageQuery selects a page of the community feed. Zero fields fall back to
// DefaultPageNum and DefaultPageSize.
type PageQuery struct {
	PageNum  int
	PageSize int
	Keyword  string // empty = no filter
}

// WithDefaults returns a copy of q with zero fields replaced by defaults.
func (q PageQuery) WithDefaults() PageQuery {
	if q.PageNum == 0 {
		q.PageNum = DefaultPageNum
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	return q
}
