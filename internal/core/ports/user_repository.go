package ports

import (
	"context"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

// UserRepository defines the persistence capabilities for principals.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
