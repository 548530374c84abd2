package campus

import (
	"encoding/json"
	"strings"
)

// DataPrefix marks a protocol-significant line on the chat stream.
const DataPrefix = "data: "

// DoneSentinel is the payload that ends a chat stream gracefully.
const DoneSentinel = "[DONE]"

// Frame is a sealed interface representing one parsed line of the chat
// stream. Frames are purely semantic; transport errors come from the error
// return of ChatStream.Next, not from frames.
// The unexported marker method prevents external implementations.
type Frame interface {
	frame()
}

// FrameContent carries a fragment of generated text to append.
type FrameContent struct {
	Text string
}

func (FrameContent) frame() {}

// FrameError carries an error reported by the backend mid-stream. Text is
// content sent in the same frame; readers append it before escalating.
type FrameError struct {
	Message string
	Text    string
}

func (FrameError) frame() {}

// FrameDone is the explicit end-of-stream marker.
type FrameDone struct{}

func (FrameDone) frame() {}

// FrameUnrecognized is a blank, non-protocol or malformed line.
// It is skipped by readers and never surfaced as an error.
type FrameUnrecognized struct {
	Line string
}

func (FrameUnrecognized) frame() {}

// Interface compliance checks.
var (
	_ Frame = FrameContent{}
	_ Frame = FrameError{}
	_ Frame = FrameDone{}
	_ Frame = FrameUnrecognized{}
)

// framePayload is the JSON object carried after the data prefix.
// Pointers distinguish an absent field from an empty one.
type framePayload struct {
	Content *string `json:"content"`
	Error   *string `json:"error"`
}

// ParseFrame classifies a single line of the chat stream. It never fails:
// anything that is not a well-formed frame is FrameUnrecognized.
//
// An object carrying both error and content is an error whose Text holds
// the content.
func ParseFrame(line string) Frame {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, DataPrefix)
	if !ok {
		return FrameUnrecognized{Line: line}
	}
	payload := strings.TrimSpace(rest)
	if payload == DoneSentinel {
		return FrameDone{}
	}

	var p framePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return FrameUnrecognized{Line: line}
	}
	switch {
	case p.Error != nil:
		f := FrameError{Message: *p.Error}
		if p.Content != nil {
			f.Text = *p.Content
		}
		return f
	case p.Content != nil && *p.Content != "":
		return FrameContent{Text: *p.Content}
	default:
		return FrameUnrecognized{Line: line}
	}
}
