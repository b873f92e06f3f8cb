package ports

import (
	"context"

	"github.com/baselinehq/pricing-api/internal/core/domain"
)

// AuthRepository persists session-gateway credentials.
type AuthRepository interface {
	// Create inserts a user. Returns domain.ErrAccountExists when the email
	// is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrAccountNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrAccountNotFound when no user matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
