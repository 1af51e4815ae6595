package ports

import (
	"context"
	"time"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

// RefreshTokenRepository defines the persistence capabilities for refresh
// tokens. The backing store must enforce a uniqueness constraint on the token
// string so concurrent inserts can never collide.
type RefreshTokenRepository interface {
	Insert(ctx context.Context, token *domain.RefreshToken) error
	// FindByToken returns domain.ErrTokenNotFound when no record matches;
	// any other error is a collaborator failure, never folded into not-found.
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	FindByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error)
	// Delete removes a record by token string. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, token string) error
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
