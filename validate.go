package campus

import (
	"bytes"
	"fmt"
	"strings"
)

// Validate checks universal constraints on ChatRequest.
func (r ChatRequest) Validate() error {
	if r.Mode != ModeStandard && r.Mode != ModeDeepThinking {
		return fmt.Errorf("mode must be 0 or 1, got %d: %w", r.Mode, ErrValidation)
	}
	if strings.TrimSpace(r.UserMessage) == "" {
		return fmt.Errorf("user message must not be empty: %w", ErrValidation)
	}
	return nil
}

// Validate checks that a message draft can be stored.
func (d MessageDraft) Validate() error {
	if d.SessionID <= 0 {
		return fmt.Errorf("session id must be positive, got %d: %w", d.SessionID, ErrValidation)
	}
	if d.Role != RoleUser && d.Role != RoleAI {
		return fmt.Errorf("unknown role %q: %w", d.Role, ErrValidation)
	}
	return nil
}

// Validate checks that a session draft can be created.
func (d SessionDraft) Validate() error {
	if d.UserID <= 0 {
		return fmt.Errorf("user id must be positive, got %d: %w", d.UserID, ErrValidation)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("session title must not be empty: %w", ErrValidation)
	}
	return nil
}

// Validate checks paging bounds. Zero values are allowed and mean default.
func (q PageQuery) Validate() error {
	if q.PageNum < 0 {
		return fmt.Errorf("page number must be non-negative, got %d: %w", q.PageNum, ErrValidation)
	}
	if q.PageSize < 0 {
		return fmt.Errorf("page size must be non-negative, got %d: %w", q.PageSize, ErrValidation)
	}
	return nil
}

// Validate checks that a post has the fields the publish form requires.
func (d PostDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("post title must not be empty: %w", ErrValidation)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("post content must not be empty: %w", ErrValidation)
	}
	return nil
}

// Validate checks that both credential fields are present.
func (c Credentials) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username must not be empty: %w", ErrValidation)
	}
	if c.Password == "" {
		return fmt.Errorf("password must not be empty: %w", ErrValidation)
	}
	return nil
}

// Limits on images attached to a post.
const (
	MaxPostImages  = 5
	MaxImageSize   = 2 << 20
	imageSniffSize = 8
)

var (
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
)

// Validate checks that u is a JPEG or PNG image under MaxImageSize.
func (u Upload) Validate() error {
	if len(u.Data) >= MaxImageSize {
		return fmt.Errorf("image %s is %d bytes, must be under %d: %w", u.Name, len(u.Data), MaxImageSize, ErrValidation)
	}
	head := u.Data[:min(len(u.Data), imageSniffSize)]
	if !bytes.HasPrefix(head, jpegMagic) && !bytes.HasPrefix(head, pngMagic) {
		return fmt.Errorf("image %s must be JPEG or PNG: %w", u.Name, ErrValidation)
	}
	return nil
}
