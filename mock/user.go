package mock

import (
	"context"

	"github.com/fwojciec/campus"
)

// UserService is a test double for campus.UserService.
type UserService struct {
	LoginFn func(ctx context.Context, c campus.Credentials) (campus.LoginResult, error)
	InfoFn  func(ctx context.Context) (campus.UserInfo, error)
}

func (s *UserService) Login(ctx context.Context, c campus.Credentials) (campus.LoginResult, error) {
	return s.LoginFn(ctx, c)
}

func (s *UserService) Info(ctx context.Context) (campus.UserInfo, error) {
	return s.InfoFn(ctx)
}

// TokenSource is a test double for campus.TokenSource.
// It returns Value when TokenFn is nil.
type TokenSource struct {
	TokenFn func() (string, error)
	Value   string
}

func (s *TokenSource) Token() (string, error) {
	if s.TokenFn == nil {
		return s.Value, nil
	}
	return s.TokenFn()
}
