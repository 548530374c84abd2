package mock

import "github.com/fwojciec/campus"

// ChatStream is a test double for campus.ChatStream.
// NextFn panics when nil to catch missing setup. StateFn, TextFn and CloseFn
// are nil-safe (zero value, "" and no-op) because callers commonly
// defer stream.Close() and read Text() without caring about the result.
type ChatStream struct {
	NextFn  func() (campus.Frame, error)
	StateFn func() campus.StreamState
	TextFn  func() string
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *ChatStream) Next() (campus.Frame, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *ChatStream) State() campus.StreamState {
	if s.StateFn == nil {
		return campus.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn. Returns "" when TextFn is nil.
func (s *ChatStream) Text() string {
	if s.TextFn == nil {
		return ""
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *ChatStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
