package http

import (
	"context"
	"io"

	"github.com/fwojciec/campus"
)

// NewChatStream exposes newChatStream for testing.
func NewChatStream(ctx context.Context, body io.ReadCloser) campus.ChatStream {
	return newChatStream(ctx, body)
}

// PostTimeLayout exposes postTimeLayout for testing.
const PostTimeLayout = postTimeLayout
