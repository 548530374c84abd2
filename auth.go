package campus

import (
	"context"
	"errors"
	"fmt"
)

// Auth keeps the bearer token of the logged-in user in a Store.
// It implements TokenSource, so an HTTP client can be wired to it directly.
type Auth struct {
	users UserService
	store Store
}

// NewAuth creates an Auth backed by users and store.
func NewAuth(users UserService, store Store) *Auth {
	return &Auth{users: users, store: store}
}

// Login exchanges credentials for a token and stores it.
func (a *Auth) Login(ctx context.Context, c Credentials) (LoginResult, error) {
	if err := c.Validate(); err != nil {
		return LoginResult{}, err
	}
	res, err := a.users.Login(ctx, c)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return res, fmt.Errorf("login: empty token: %w", ErrUnauthorized)
	}
	if err := a.store.Set(KeyToken, res.Token); err != nil {
		return res, fmt.Errorf("login: store token: %w", err)
	}
	return res, nil
}

// Refresh fetches the profile of the current user, stores the refreshed
// token and username, and returns the resulting Identity.
func (a *Auth) Refresh(ctx context.Context) (UserInfo, Identity, error) {
	tok, err := a.Token()
	if err != nil {
		return UserInfo{}, Identity{}, err
	}
	if tok == "" {
		return UserInfo{}, Identity{}, ErrNotLoggedIn
	}

	info, err := a.users.Info(ctx)
	if err != nil {
		return UserInfo{}, Identity{}, fmt.Errorf("refresh: %w", err)
	}
	if info.Token == "" {
		info.Token = tok
	}
	if err := a.store.Set(KeyToken, info.Token); err != nil {
		return info, Identity{}, fmt.Errorf("refresh: store token: %w", err)
	}
	if err := a.store.Set(KeyUsername, info.User.Username); err != nil {
		return info, Identity{}, fmt.Errorf("refresh: store username: %w", err)
	}

	id, err := IdentityFromUserInfo(info)
	if err != nil {
		return info, Identity{}, fmt.Errorf("refresh: %w", err)
	}
	return info, id, nil
}

// Logout forgets the stored token and username.
func (a *Auth) Logout() error {
	return errors.Join(a.store.Delete(KeyToken), a.store.Delete(KeyUsername))
}

// Token returns the stored token, or "" when nobody is logged in.
func (a *Auth) Token() (string, error) {
	tok, _, err := a.store.Get(KeyToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return tok, nil
}

// Username returns the stored username, or "" when unknown.
func (a *Auth) Username() (string, error) {
	name, _, err := a.store.Get(KeyUsername)
	if err != nil {
		return "", fmt.Errorf("read username: %w", err)
	}
	return name, nil
}
