package campus

import "io"

// StreamState indicates the current state of a ChatStream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving frames.
	StreamStateComplete                     // Done sentinel or end of data seen.
	StreamStateError                        // In-band error or read failure.
	StreamStateClosed                       // Close() called before terminal state.
)

// ChatStream uses a pull-based iterator pattern over the frames of one chat
// reply. Cancellation flows through the context passed to
// ChatService.OpenChatStream.
//
// Next skips unrecognized lines and returns only FrameContent and FrameError.
// It returns io.EOF once the done sentinel or the end of data is reached.
// After a FrameError every further call returns an *UpstreamError, and
// after a read failure every further call returns that failure.
//
// Text returns the accumulated content so far. It only grows, and stops
// growing once a terminal state is reached.
//
// Close releases the underlying body. It is safe to call more than once; the
// body is released exactly once.
type ChatStream interface {
	Next() (Frame, error)
	State() StreamState
	Text() string
	Close() error
}

// StreamHandler receives incremental results from a streaming chat call.
// Both fields are optional.
type StreamHandler struct {
	// OnContent receives the full accumulated reply after every content
	// frame, so callers can replace their display buffer instead of appending.
	OnContent func(text string)
	// OnError receives an in-band backend error before it is returned.
	OnError func(message string)
}

func (h StreamHandler) content(text string) {
	if h.OnContent != nil {
		h.OnContent(text)
	}
}

func (h StreamHandler) error(message string) {
	if h.OnError != nil {
		h.OnError(message)
	}
}

// Drain folds a ChatStream into the callback form. It invokes h.OnContent
// with the accumulated text after every content frame and returns the full
// text when the stream completes. An in-band error is reported to h.OnError
// once and returned as *UpstreamError. Content carried by the error frame is
// delivered to h.OnContent first. Read errors are returned unchanged.
//
// The stream is always closed before Drain returns. When the error is
// non-nil, the returned text is the partial reply received before it.
func Drain(s ChatStream, h StreamHandler) (string, error) {
	defer s.Close()

	for {
		f, err := s.Next()
		if err == io.EOF {
			return s.Text(), nil
		}
		if err != nil {
			return s.Text(), err
		}
		switch f := f.(type) {
		case FrameContent:
			h.content(s.Text())
		case FrameError:
			if f.Text != "" {
				h.content(s.Text())
			}
			h.error(f.Message)
			return s.Text(), &UpstreamError{Message: f.Message}
		}
	}
}
