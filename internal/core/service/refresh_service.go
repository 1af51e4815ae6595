package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
	"github.com/ecommerce-platform/auth-service/internal/core/ports"
)

const defaultRefreshTTL = 7 * 24 * time.Hour

// RefreshTokenService is the durable bookkeeping layer for refresh tokens.
type RefreshTokenService struct {
	repo ports.RefreshTokenRepository
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time
}

func NewRefreshTokenService(repo ports.RefreshTokenRepository, ttl time.Duration, log zerolog.Logger) *RefreshTokenService {
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	return &RefreshTokenService{repo: repo, ttl: ttl, log: log, now: time.Now}
}

// Create issues and persists a fresh token for the user. The identifier is a
// random UUIDv4, globally unique and never reused.
func (s *RefreshTokenService) Create(ctx context.Context, user *domain.User) (*domain.RefreshToken, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := s.now().UTC()
	token := &domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, token); err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Time("expires_at", token.ExpiresAt).Msg("refresh token created")
	return token, nil
}

// FindByToken is a pass-through lookup; absence surfaces as
// domain.ErrTokenNotFound, which callers treat as a normal outcome.
func (s *RefreshTokenService) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	return s.repo.FindByToken(ctx, token)
}

// CheckNotExpired fails with domain.ErrTokenExpired when token's expiry has
// passed. Detection is destructive: the expired record is deleted immediately,
// so the same record can never be checked twice.
func (s *RefreshTokenService) CheckNotExpired(ctx context.Context, token *domain.RefreshToken) error {
	if token == nil {
		return domain.ErrInvalidInput
	}
	if !token.Expired(s.now()) {
		return nil
	}

	if err := s.repo.Delete(ctx, token.Token); err != nil {
		s.log.Warn().Err(err).Str("user_id", token.UserID).Msg("failed to delete expired refresh token")
	} else {
		s.log.Info().Str("user_id", token.UserID).Msg("expired refresh token removed")
	}
	return domain.ErrTokenExpired
}

// Revoke deletes the record unconditionally; an already-gone record is success.
func (s *RefreshTokenService) Revoke(ctx context.Context, token string) error {
	if err := s.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	s.log.Debug().Msg("refresh token revoked")
	return nil
}

// RevokeAllForUser deletes every refresh token owned by the principal.
func (s *RefreshTokenService) RevokeAllForUser(ctx context.Context, userID string) error {
	n, err := s.repo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	s.log.Info().Str("user_id", userID).Int64("revoked", n).Msg("all sessions revoked")
	return nil
}

// SweepExpired bulk-deletes every record whose expiry has passed. It runs off
// the request path and is safe concurrently with any request-path operation.
func (s *RefreshTokenService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired refresh tokens: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("expired refresh tokens swept")
	}
	return n, nil
}
