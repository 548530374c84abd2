package campus

import (
	"context"
	"fmt"
	"strconv"
)

// Identity is the logged-in user as seen by components that act on their
// behalf. It is read-only and travels through context.Context.
type Identity struct {
	UserID   int64
	Username string
	Token    string
}

// IdentityFromUserInfo builds an Identity from a profile response.
func IdentityFromUserInfo(info UserInfo) (Identity, error) {
	id, err := strconv.ParseInt(info.User.ID, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("user id %q: %w", info.User.ID, ErrValidation)
	}
	return Identity{UserID: id, Username: info.User.Username, Token: info.Token}, nil
}

type identityKey struct{}

// NewContextWithIdentity returns a copy of ctx carrying id.
func NewContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity carried by ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
