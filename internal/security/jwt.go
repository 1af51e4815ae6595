// Package security implements the stateless access-token codec. Tokens are
// HS256-signed JWTs carrying issuer, subject (the principal's email),
// issued-at, and expiry; validity is fully determined by signature and claim
// inspection, no store lookup involved.
package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

// TokenCodec mints and validates access tokens. The signing key is derived
// from the configured base64 secret exactly once, in NewTokenCodec, and is
// read-only afterwards; concurrent use needs no synchronization.
type TokenCodec struct {
	key    []byte
	issuer string
	parser *jwt.Parser
}

// NewTokenCodec decodes the base64-encoded secret and builds the codec.
func NewTokenCodec(secret, issuer string) (*TokenCodec, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	if issuer == "" {
		return nil, errors.New("issuer is empty")
	}
	return &TokenCodec{
		key:    key,
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Mint produces a signed access token for the user, expiring after ttl.
func (c *TokenCodec) Mint(user *domain.User, ttl time.Duration) (string, error) {
	if user == nil || user.Email == "" {
		return "", domain.ErrInvalidInput
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   user.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Validate inspects a token string and fails closed: malformed structure, bad
// signature, expired, or issuer mismatch all yield Valid=false with no
// subject. A blank input is invalid, never an error.
func (c *TokenCodec) Validate(token string) domain.TokenValidation {
	if strings.TrimSpace(token) == "" {
		return domain.TokenValidation{}
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil || !parsed.Valid {
		return domain.TokenValidation{}
	}

	return domain.TokenValidation{Valid: true, Subject: claims.Subject}
}

// ValidateForSubject reports whether token is valid and was issued to the
// expected subject (exact string match).
func (c *TokenCodec) ValidateForSubject(token, subject string) bool {
	v := c.Validate(token)
	return v.Valid && v.Subject == subject
}
