// Package mock provides test doubles for campus interfaces using function fields.
package mock

import "github.com/fwojciec/campus"

// Interface compliance checks.
var (
	_ campus.ChatService      = (*ChatService)(nil)
	_ campus.CommunityService = (*CommunityService)(nil)
	_ campus.UserService      = (*UserService)(nil)
	_ campus.ChatStream       = (*ChatStream)(nil)
	_ campus.Store            = (*Store)(nil)
	_ campus.TokenSource      = (*TokenSource)(nil)
)
