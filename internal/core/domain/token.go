package domain

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid refresh token")
var ErrTokenNotFound = errors.New("refresh token not found")
var ErrTokenExpired = errors.New("refresh token expired")

// RefreshToken is a stored, revocable session credential. The Token string is
// the opaque identifier the client presents; once issued it is never reused.
type RefreshToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token must no longer be trusted at instant now.
// A token whose expiry equals now is already expired.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TokenValidation is the outcome of inspecting a stateless access token.
// Subject is only meaningful when Valid is true.
type TokenValidation struct {
	Valid   bool   `json:"valid"`
	Subject string `json:"subject,omitempty"`
}
