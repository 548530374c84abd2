package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fwojciec/campus"
)

// OpenChatStream posts req to the streaming endpoint and returns the reply
// as a [campus.ChatStream]. The caller must Close it.
func (c *Client) OpenChatStream(ctx context.Context, req campus.ChatRequest) (campus.ChatStream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, chatStreamPath, nil, chatStreamRequest{
		Mode:        int(req.Mode),
		UserMessage: req.UserMessage,
		SessionID:   req.SessionID,
	})
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.send(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("http: %w", campus.ErrStreamUnavailable)
	}
	return newChatStream(ctx, resp.Body), nil
}

// StreamChat posts req and delivers the reply to h as it arrives.
// See [campus.Drain] for the callback and error contract.
func (c *Client) StreamChat(ctx context.Context, req campus.ChatRequest, h campus.StreamHandler) (string, error) {
	s, err := c.OpenChatStream(ctx, req)
	if err != nil {
		return "", err
	}
	return campus.Drain(s, h)
}

// CallChat sends one message to the non-streaming endpoint and returns the
// reply once it is complete.
func (c *Client) CallChat(ctx context.Context, mode campus.Mode, userMessage string) (string, error) {
	req := campus.ChatRequest{Mode: mode, UserMessage: userMessage}
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("http: %w", err)
	}
	var env envelope[string]
	if err := c.do(ctx, http.MethodPost, chatCallPath, nil, chatCallRequest{Mode: int(mode), UserMessage: userMessage}, &env); err != nil {
		return "", err
	}
	return env.Data, nil
}

// Messages returns the stored messages of a session in chronological order.
func (c *Client) Messages(ctx context.Context, sessionID int64) ([]campus.ChatMessage, error) {
	var env envelope[[]messageDTO]
	q := url.Values{"session_id": {formatID(sessionID)}}
	if err := c.do(ctx, http.MethodGet, chatMessagesPath, q, nil, &env); err != nil {
		return nil, err
	}
	msgs := make([]campus.ChatMessage, len(env.Data))
	for i, d := range env.Data {
		msgs[i] = d.toDomain()
	}
	return msgs, nil
}

// Sessions returns the caller's chat history.
func (c *Client) Sessions(ctx context.Context) ([]campus.ChatSession, error) {
	var env envelope[[]sessionDTO]
	if err := c.do(ctx, http.MethodGet, chatHistoryPath, nil, nil, &env); err != nil {
		return nil, err
	}
	sessions := make([]campus.ChatSession, 0, len(env.Data))
	for _, d := range env.Data {
		if d.IsDeleted != 0 {
			continue
		}
		sessions = append(sessions, d.toDomain())
	}
	return sessions, nil
}

func (c *Client) AddMessage(ctx context.Context, d campus.MessageDraft) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	return c.do(ctx, http.MethodPost, chatAddMsgPath, nil, addMessageRequest{
		SessionID: d.SessionID,
		Role:      string(d.Role),
		Content:   d.Content,
	}, nil)
}

// AddSession creates a session and returns its id.
func (c *Client) AddSession(ctx context.Context, d campus.SessionDraft) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, fmt.Errorf("http: %w", err)
	}
	var env envelope[addSessionResponse]
	if err := c.do(ctx, http.MethodPost, chatAddSessPath, nil, addSessionRequest{UserID: d.UserID, Title: d.Title}, &env); err != nil {
		return 0, err
	}
	if env.Data.SessionID == 0 {
		return 0, fmt.Errorf("http: add session: response has no session_id")
	}
	return env.Data.SessionID, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID int64) error {
	return c.do(ctx, http.MethodDelete, chatDelSessPrefix+formatID(sessionID), nil, nil, nil)
}
