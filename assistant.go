package campus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// FallbackReply is stored as the AI message when generation fails, so the
// history shows why the question went unanswered.
const FallbackReply = "The network is unstable, please try again."

// Assistant orchestrates a chat turn against a ChatService: it creates the
// session on first use, records the user's message and streams the reply.
type Assistant struct {
	chat ChatService
	log  zerolog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithAssistantLogger sets the logger for non-fatal failures.
func WithAssistantLogger(l zerolog.Logger) AssistantOption {
	return func(a *Assistant) { a.log = l }
}

// NewAssistant creates an Assistant backed by chat.
func NewAssistant(chat ChatService, opts ...AssistantOption) *Assistant {
	a := &Assistant{chat: chat, log: zerolog.Nop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// AskRequest is one user turn.
type AskRequest struct {
	SessionID int64 // 0 = start a new session
	Mode      Mode
	Text      string
}

// AskResult reports where the turn was recorded and what came back.
type AskResult struct {
	SessionID  int64
	NewSession bool
	Reply      string
}

// Ask runs a streaming turn. A new session is titled after the question and
// owned by the identity carried in ctx. The backend records the streamed
// reply itself; when streaming fails Ask records FallbackReply instead and
// returns the error together with any partial reply.
func (a *Assistant) Ask(ctx context.Context, req AskRequest, h StreamHandler) (AskResult, error) {
	res, text, err := a.begin(ctx, req)
	if err != nil {
		return res, err
	}

	sid := res.SessionID
	reply, err := a.chat.StreamChat(ctx, ChatRequest{Mode: req.Mode, UserMessage: text, SessionID: &sid}, h)
	res.Reply = reply
	if err != nil {
		a.recordFallback(ctx, sid, err)
		return res, err
	}
	return res, nil
}

// AskSync runs a turn through the non-streaming endpoint and records both
// sides of the exchange.
func (a *Assistant) AskSync(ctx context.Context, req AskRequest) (AskResult, error) {
	res, text, err := a.begin(ctx, req)
	if err != nil {
		return res, err
	}

	reply, err := a.chat.CallChat(ctx, req.Mode, text)
	if err != nil {
		a.recordFallback(ctx, res.SessionID, err)
		return res, err
	}
	res.Reply = reply
	if err := a.chat.AddMessage(ctx, MessageDraft{SessionID: res.SessionID, Role: RoleAI, Content: reply}); err != nil {
		a.log.Warn().Err(err).Int64("session_id", res.SessionID).Msg("record ai message")
	}
	return res, nil
}

// begin validates the turn, resolves the session and records the question.
func (a *Assistant) begin(ctx context.Context, req AskRequest) (AskResult, string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return AskResult{}, "", fmt.Errorf("question must not be empty: %w", ErrValidation)
	}

	res := AskResult{SessionID: req.SessionID}
	if res.SessionID == 0 {
		id, ok := IdentityFromContext(ctx)
		if !ok {
			return AskResult{}, "", ErrNotLoggedIn
		}
		sid, err := a.chat.AddSession(ctx, SessionDraft{UserID: id.UserID, Title: SessionTitle(text)})
		if err != nil {
			return AskResult{}, "", fmt.Errorf("create session: %w", err)
		}
		res.SessionID = sid
		res.NewSession = true
	}

	if err := a.chat.AddMessage(ctx, MessageDraft{SessionID: res.SessionID, Role: RoleUser, Content: text}); err != nil {
		a.log.Warn().Err(err).Int64("session_id", res.SessionID).Msg("record user message")
	}
	return res, text, nil
}

// recordFallback stores FallbackReply unless the caller gave up on the turn.
func (a *Assistant) recordFallback(ctx context.Context, sessionID int64, cause error) {
	if errors.Is(cause, context.Canceled) || ctx.Err() != nil {
		return
	}
	a.log.Error().Err(cause).Int64("session_id", sessionID).Msg("chat reply failed")
	if err := a.chat.AddMessage(ctx, MessageDraft{SessionID: sessionID, Role: RoleAI, Content: FallbackReply}); err != nil {
		a.log.Warn().Err(err).Int64("session_id", sessionID).Msg("record fallback message")
	}
}
