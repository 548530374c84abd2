package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/campus"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, cr campus.Credentials) (campus.LoginResult, error) {
	if err := cr.Validate(); err != nil {
		return campus.LoginResult{}, fmt.Errorf("http: %w", err)
	}
	var env envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, userLoginPath, nil, loginRequest{Username: cr.Username, Password: cr.Password}, &env); err != nil {
		return campus.LoginResult{}, err
	}
	return campus.LoginResult{Message: env.Message, Token: env.Token}, nil
}

// Info returns the profile of the token's owner along with a refreshed token.
func (c *Client) Info(ctx context.Context) (campus.UserInfo, error) {
	var env envelope[userDTO]
	if err := c.do(ctx, http.MethodGet, userInfoPath, nil, nil, &env); err != nil {
		return campus.UserInfo{}, err
	}
	return campus.UserInfo{Message: env.Message, Token: env.Token, User: env.Data.toDomain()}, nil
}
