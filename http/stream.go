package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/campus"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// chatStream implements [campus.ChatStream] over the body of a streaming
// chat response. Bytes pass through an incremental UTF-8 decoder, so a
// character split across network reads is decoded once both halves have
// arrived. The buffered reader keeps an unterminated line until its newline
// shows up.
type chatStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	ctx    context.Context
	state  campus.StreamState
	text   strings.Builder
	err    error // terminal error, if any

	closeOnce sync.Once
	closeErr  error
}

// Interface compliance check.
var _ campus.ChatStream = (*chatStream)(nil)

func newChatStream(ctx context.Context, body io.ReadCloser) *chatStream {
	return &chatStream{
		body:   body,
		reader: bufio.NewReader(transform.NewReader(body, unicode.UTF8.NewDecoder())),
		ctx:    ctx,
		state:  campus.StreamStateNew,
	}
}

// Next returns the next content or error frame.
// Returns io.EOF on the done sentinel or at the end of data.
func (s *chatStream) Next() (campus.Frame, error) {
	switch s.state {
	case campus.StreamStateComplete:
		return nil, io.EOF
	case campus.StreamStateError:
		return nil, s.err
	case campus.StreamStateClosed:
		return nil, fmt.Errorf("http: %w", campus.ErrStreamClosed)
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			s.fail(s.readError(err))
			return nil, s.err
		}
		atEOF := err == io.EOF
		if line != "" {
			s.state = campus.StreamStateStreaming
		}

		// A final line without a newline is still a line.
		switch f := campus.ParseFrame(line).(type) {
		case campus.FrameDone:
			s.state = campus.StreamStateComplete
			return nil, io.EOF
		case campus.FrameError:
			s.text.WriteString(f.Text)
			s.fail(&campus.UpstreamError{Message: f.Message})
			return f, nil
		case campus.FrameContent:
			s.text.WriteString(f.Text)
			if atEOF {
				s.state = campus.StreamStateComplete
			}
			return f, nil
		}

		if atEOF {
			s.state = campus.StreamStateComplete
			return nil, io.EOF
		}
	}
}

// State returns the current stream state.
func (s *chatStream) State() campus.StreamState {
	return s.state
}

// Text returns the reply accumulated so far.
func (s *chatStream) Text() string {
	return s.text.String()
}

// Close releases the response body. Only the first call closes it.
func (s *chatStream) Close() error {
	s.closeOnce.Do(func() {
		if s.state != campus.StreamStateComplete && s.state != campus.StreamStateError {
			s.state = campus.StreamStateClosed
		}
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

func (s *chatStream) fail(err error) {
	s.state = campus.StreamStateError
	s.err = err
}

// readError wraps a body read failure, attaching the context error when the
// caller canceled the request.
func (s *chatStream) readError(err error) error {
	if ctxErr := s.ctx.Err(); ctxErr != nil && err != ctxErr {
		return fmt.Errorf("http: read stream: %w: %w", ctxErr, err)
	}
	return fmt.Errorf("http: read stream: %w", err)
}
