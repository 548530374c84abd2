// Package http implements the campus services against the platform's REST
// API. Every JSON response is wrapped in a {message, data} envelope; the chat
// reply additionally streams as newline-delimited "data: " frames that are
// read through the pull-based [campus.ChatStream] interface.
package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/campus"
)

const (
	defaultBaseURL = campus.DefaultBaseURL

	chatCallPath      = "/api/chat/call"
	chatStreamPath    = "/api/chat/stream"
	chatMessagesPath  = "/api/chat/getMessage"
	chatHistoryPath   = "/api/chat/history"
	chatAddMsgPath    = "/api/chat/addMessage"
	chatAddSessPath   = "/api/chat/addSession"
	chatDelSessPrefix = "/api/chat/delSession/"

	communityListPath    = "/api/community/list"
	communitySearchPath  = "/api/community/search"
	communityPagePath    = "/api/community/page"
	communityPostPrefix  = "/api/community/"
	communityImagePath   = "/api/community/image"
	communityAddPath     = "/api/community/add"
	communityLikePath    = "/api/community/like"
	communityCollectPath = "/api/community/collected"

	userLoginPath = "/api/user/login"
	userInfoPath  = "/api/user/info"

	requestIDHeader = "X-Request-Id"

	// postTimeLayout is how the web client formats post timestamps.
	postTimeLayout = "2006-01-02 15:04:05"
)

// envelope is the response wrapper used by every JSON endpoint.
type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
	Token   string `json:"token,omitempty"`
}

// flexID decodes identifiers the backend sends either as a JSON string or
// as a JSON number.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id %s: %w", b, err)
	}
	*id = flexID(n.String())
	return nil
}

// timestamp decodes the datetime formats the backend emits. Unparseable or
// empty values decode to the zero time.
type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	postTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (ts *timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Numbers are epoch milliseconds.
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			*ts = timestamp{}
			return nil
		}
		*ts = timestamp(time.UnixMilli(ms))
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*ts = timestamp(t)
			return nil
		}
	}
	*ts = timestamp{}
	return nil
}

// Chat.

type chatStreamRequest struct {
	Mode        int    `json:"mode"`
	UserMessage string `json:"userMessage"`
	SessionID   *int64 `json:"session_id"`
}

type chatCallRequest struct {
	Mode        int    `json:"mode"`
	UserMessage string `json:"userMessage"`
}

type sessionDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"session_title"`
	IsDeleted int       `json:"is_deleted"`
	CreatedAt timestamp `json:"created_at"`
	UpdatedAt timestamp `json:"updated_at"`
}

func (d sessionDTO) toDomain() campus.ChatSession {
	return campus.ChatSession{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Deleted:   d.IsDeleted != 0,
		CreatedAt: time.Time(d.CreatedAt),
		UpdatedAt: time.Time(d.UpdatedAt),
	}
}

type messageDTO struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"session_id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	ContentType  string    `json:"content_type"`
	AudioURL     *string   `json:"audio_url"`
	ThinkingMode int       `json:"thinking_mode"`
	TokenUsage   int       `json:"token_usage"`
	CreatedAt    timestamp `json:"created_at"`
}

func (d messageDTO) toDomain() campus.ChatMessage {
	m := campus.ChatMessage{
		ID:           d.ID,
		SessionID:    d.SessionID,
		Role:         campus.Role(d.Role),
		Content:      d.Content,
		ContentType:  campus.ContentType(d.ContentType),
		ThinkingMode: campus.Mode(d.ThinkingMode),
		TokenUsage:   d.TokenUsage,
		CreatedAt:    time.Time(d.CreatedAt),
	}
	if m.ContentType == "" {
		m.ContentType = campus.ContentText
	}
	if d.AudioURL != nil {
		m.AudioURL = *d.AudioURL
	}
	return m
}

type addMessageRequest struct {
	SessionID int64  `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

type addSessionRequest struct {
	UserID int64  `json:"user_id"`
	Title  string `json:"session_title"`
}

type addSessionResponse struct {
	SessionID int64 `json:"session_id"`
}

// Community.

type postDTO struct {
	ID          flexID    `json:"id"`
	Avatar      string    `json:"avatar"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Time        timestamp `json:"time"`
	Content     string    `json:"content"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Collection  int       `json:"collection"`
	Photo       []string  `json:"photo"`
	Video       []string  `json:"video"`
	Link        []string  `json:"link"`
	IsLiked     bool      `json:"isLiked"`
	IsCollected bool      `json:"isCollected"`
}

func (d postDTO) toDomain() campus.Post {
	return campus.Post{
		ID:          string(d.ID),
		Avatar:      d.Avatar,
		Name:        d.Name,
		Title:       d.Title,
		Time:        time.Time(d.Time),
		Content:     d.Content,
		Likes:       d.Likes,
		Comments:    d.Comments,
		Collection:  d.Collection,
		Photos:      d.Photo,
		Videos:      d.Video,
		Links:       d.Link,
		IsLiked:     d.IsLiked,
		IsCollected: d.IsCollected,
	}
}

func postsToDomain(ds []postDTO) []campus.Post {
	posts := make([]campus.Post, len(ds))
	for i, d := range ds {
		posts[i] = d.toDomain()
	}
	return posts
}

type postPageDTO struct {
	List  []postDTO `json:"list"`
	Total int       `json:"total"`
}

// addPostRequest is a new post. Counters start at zero and the publish time
// is stamped by the client.
type addPostRequest struct {
	Avatar      string   `json:"avatar"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Time        string   `json:"time"`
	Content     string   `json:"content"`
	Likes       int      `json:"likes"`
	Comments    int      `json:"comments"`
	Collection  int      `json:"collection"`
	Photo       []string `json:"photo,omitempty"`
	Video       []string `json:"video,omitempty"`
	Link        []string `json:"link,omitempty"`
	IsLiked     bool     `json:"isLiked"`
	IsCollected bool     `json:"isCollected"`
}

type uploadResponse struct {
	URLs []string `json:"urls"`
}

// User.

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userDTO struct {
	ID          flexID `json:"id"`
	Username    string `json:"username"`
	Photo       string `json:"photo"`
	Video       string `json:"video"`
	Link        string `json:"link"`
	Mobile      string `json:"mobile"`
	Gender      int    `json:"gender"`
	Birthday    string `json:"birthday"`
	Degree      string `json:"degree"`
	ArtCount    int    `json:"art_count"`
	FollowCount int    `json:"follow_count"`
	FansCount   int    `json:"fans_count"`
	LikeCount   int    `json:"like_count"`
}

func (d userDTO) toDomain() campus.User {
	return campus.User{
		ID:          string(d.ID),
		Username:    d.Username,
		Photo:       d.Photo,
		Video:       d.Video,
		Link:        d.Link,
		Mobile:      d.Mobile,
		Gender:      d.Gender,
		Birthday:    d.Birthday,
		Degree:      d.Degree,
		ArtCount:    d.ArtCount,
		FollowCount: d.FollowCount,
		FansCount:   d.FansCount,
		LikeCount:   d.LikeCount,
	}
}

// errorResponse is the body of a failed request.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
