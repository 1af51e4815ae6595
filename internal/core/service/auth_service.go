package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
	"github.com/ecommerce-platform/auth-service/internal/core/ports"
	"github.com/ecommerce-platform/auth-service/internal/security"
)

// LoginLimiter abstracts the brute-force throttle (Redis).
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService orchestrates the session lifecycle: login, refresh with
// rotation, logout, and bulk logout. Access tokens stay stateless for cheap
// verification; refresh tokens stay stored so revocation is immediate.
type AuthService struct {
	users     ports.UserService
	tokens    ports.RefreshTokenService
	hasher    ports.PasswordHasher
	codec     *security.TokenCodec
	limiter   LoginLimiter
	accessTTL time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserService,
	tokens ports.RefreshTokenService,
	hasher ports.PasswordHasher,
	codec *security.TokenCodec,
	limiter LoginLimiter,
	accessTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		codec:     codec,
		limiter:   limiter,
		accessTTL: accessTTL,
		log:       log,
	}
}

// Login verifies the credentials and, on success, mints an access token and
// creates a refresh token. A missing principal and a wrong password are
// deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	// 1. Brute-force throttle; an unavailable limiter never blocks logins.
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter check failed, proceeding")
		} else if !allowed {
			s.log.Warn().Str("email", email).Msg("login throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	// 2. Resolve the principal.
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("login: stored hash missing: %w", domain.ErrInvalidInput)
	}

	// 3. The single credential decision that gates every mint on this path.
	if !s.hasher.Matches(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		s.log.Warn().Str("user_id", user.ID).Msg("password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	// 4. Issue the pair.
	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user authenticated")
	return pair, nil
}

// Refresh rotates a stored refresh token: the presented record must exist and
// be unexpired; a new pair is issued before the old record is deleted, so
// there is no window with zero valid tokens. Two concurrent refreshes of the
// same live token may both succeed; the race is accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, domain.ErrInvalidToken
	}

	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrTokenNotFound) {
		s.log.Warn().Msg("refresh with unknown token")
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	// Destructive expiry check: an expired record is deleted on detection.
	if err := s.tokens.CheckNotExpired(ctx, record); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	// Rotation: the old record goes away only after the new one exists.
	if err := s.tokens.Revoke(ctx, record.Token); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("tokens rotated")
	return pair, nil
}

// Logout revokes the presented refresh token. An unknown token is logged and
// treated as success; logging out twice is a no-op, not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		s.log.Warn().Msg("logout without refresh token")
		return nil
	}

	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrTokenNotFound) {
		s.log.Warn().Msg("logout with unknown refresh token")
		return nil
	}
	if err != nil {
		s.log.Error().Err(err).Msg("logout lookup failed")
		return fmt.Errorf("logout: %w", err)
	}

	if err := s.tokens.Revoke(ctx, record.Token); err != nil {
		s.log.Error().Err(err).Msg("logout revoke failed")
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info().Str("user_id", record.UserID).Msg("session terminated")
	return nil
}

// LogoutAll revokes every refresh token owned by the principal, leaving zero
// live sessions.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	return nil
}

// ValidateAccessToken inspects a stateless access token via the codec.
func (s *AuthService) ValidateAccessToken(token string) domain.TokenValidation {
	return s.codec.Validate(token)
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.codec.Mint(user, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh.Token,
		ExpiresInMillis: s.accessTTL.Milliseconds(),
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}
