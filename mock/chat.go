package mock

import (
	"context"

	"github.com/fwojciec/campus"
)

// ChatService is a test double for campus.ChatService.
// Set the function fields for the methods under test; an unset field panics.
type ChatService struct {
	OpenChatStreamFn func(ctx context.Context, req campus.ChatRequest) (campus.ChatStream, error)
	StreamChatFn     func(ctx context.Context, req campus.ChatRequest, h campus.StreamHandler) (string, error)
	CallChatFn       func(ctx context.Context, mode campus.Mode, userMessage string) (string, error)
	MessagesFn       func(ctx context.Context, sessionID int64) ([]campus.ChatMessage, error)
	SessionsFn       func(ctx context.Context) ([]campus.ChatSession, error)
	AddMessageFn     func(ctx context.Context, d campus.MessageDraft) error
	AddSessionFn     func(ctx context.Context, d campus.SessionDraft) (int64, error)
	DeleteSessionFn  func(ctx context.Context, sessionID int64) error
}

func (s *ChatService) OpenChatStream(ctx context.Context, req campus.ChatRequest) (campus.ChatStream, error) {
	return s.OpenChatStreamFn(ctx, req)
}

func (s *ChatService) StreamChat(ctx context.Context, req campus.ChatRequest, h campus.StreamHandler) (string, error) {
	return s.StreamChatFn(ctx, req, h)
}

func (s *ChatService) CallChat(ctx context.Context, mode campus.Mode, userMessage string) (string, error) {
	return s.CallChatFn(ctx, mode, userMessage)
}

func (s *ChatService) Messages(ctx context.Context, sessionID int64) ([]campus.ChatMessage, error) {
	return s.MessagesFn(ctx, sessionID)
}

func (s *ChatService) Sessions(ctx context.Context) ([]campus.ChatSession, error) {
	return s.SessionsFn(ctx)
}

func (s *ChatService) AddMessage(ctx context.Context, d campus.MessageDraft) error {
	return s.AddMessageFn(ctx, d)
}

func (s *ChatService) AddSession(ctx context.Context, d campus.SessionDraft) (int64, error) {
	return s.AddSessionFn(ctx, d)
}

func (s *ChatService) DeleteSession(ctx context.Context, sessionID int64) error {
	return s.DeleteSessionFn(ctx, sessionID)
}
