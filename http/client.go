package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/campus"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Interface compliance checks.
var (
	_ campus.ChatService      = (*Client)(nil)
	_ campus.CommunityService = (*Client)(nil)
	_ campus.UserService      = (*Client)(nil)
)

// Client implements the campus services over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     campus.TokenSource
	log        zerolog.Logger
	now        func() time.Time
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where the bearer token comes from. Without one,
// requests are sent unauthenticated.
func WithTokenSource(ts campus.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock sets the clock used to stamp new posts.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("http: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known status codes to campus sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return campus.ErrUnauthorized
	case http.StatusNotFound:
		return campus.ErrNotFound
	default:
		return nil
	}
}

// newRequest builds a request with the common headers. body is encoded as
// JSON unless it is an io.Reader, which is sent as is.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var r io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
		r = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("http: token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// send performs req and returns the response when the status is 2xx.
// Otherwise the body is consumed and an *APIError returned.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	reqID := req.Header.Get(requestIDHeader)
	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Str("request_id", reqID).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := parseHTTPError(resp)
		c.log.Warn().Int("status", resp.StatusCode).Str("path", req.URL.Path).Str("request_id", reqID).Msg(apiErr.Message)
		return nil, apiErr
	}
	return resp, nil
}

// do sends a JSON request and decodes the response envelope into out.
// out may be nil when the payload is not needed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return c.roundTrip(req, out)
}

// roundTrip sends req and decodes a successful response body into out.
func (c *Client) roundTrip(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("http: %s %s: empty response", req.Method, req.URL.Path)
		}
		return fmt.Errorf("http: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		apiErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return apiErr
	}
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Message = er.Message
	if apiErr.Message == "" {
		apiErr.Message = er.Error
	}
	return apiErr
}
