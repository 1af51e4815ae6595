package ports

import (
	"context"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

// TokenPair is returned by every operation that establishes a session.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	ExpiresInMillis int64
}

// AuthService exposes the session lifecycle operations to the embedding
// request layer.
type AuthService interface {
	// Login verifies credentials and issues a fresh token pair.
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// Refresh exchanges a stored refresh token for a new pair, rotating the
	// presented token out of existence.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout revokes a single refresh token; an unknown token is a no-op.
	Logout(ctx context.Context, refreshToken string) error
	// LogoutAll revokes every refresh token owned by the given principal.
	LogoutAll(ctx context.Context, userID string) error
	// ValidateAccessToken inspects a stateless access token; no store lookup.
	ValidateAccessToken(token string) domain.TokenValidation
}

// UserService exposes principal lookup and registration.
type UserService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenService manages the stored half of the token model.
type RefreshTokenService interface {
	Create(ctx context.Context, user *domain.User) (*domain.RefreshToken, error)
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// CheckNotExpired returns domain.ErrTokenExpired when the record's expiry
	// has passed, deleting the record as a side effect.
	CheckNotExpired(ctx context.Context, token *domain.RefreshToken) error
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	SweepExpired(ctx context.Context) (int64, error)
}
