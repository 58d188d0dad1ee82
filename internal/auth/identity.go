package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the current user as claimed by the access token.
type Identity struct {
	UserID   int
	Username string
}

var ErrNoUserClaim = errors.New("token carries no user_id claim")

// FromToken extracts the viewer's identity from a bearer JWT. The client
// holds no signing key, so the claims are read without verification —
// the server re-checks the token on every call anyway.
func FromToken(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("parse access token: %w", err)
	}

	raw, ok := claims["user_id"]
	if !ok {
		return Identity{}, ErrNoUserClaim
	}
	id := Identity{}
	switch v := raw.(type) {
	case float64:
		id.UserID = int(v)
	case int:
		id.UserID = v
	default:
		return Identity{}, ErrNoUserClaim
	}
	if name, ok := claims["username"].(string); ok {
		id.Username = name
	}
	return id, nil
}
