package ports

import (
	"context"

	"github.com/baselinehq/pricing-api/internal/core/domain"
)

// SessionGateway is the opaque auth capability the entitlement service
// delegates to: it owns account ids, verifies credentials, and issues and
// resolves bearer tokens.
type SessionGateway interface {
	// CreateUser registers credentials and returns the new user.
	// Returns domain.ErrAccountExists when the email is taken.
	CreateUser(ctx context.Context, email, password, name string) (*domain.User, error)

	// Authenticate verifies credentials and returns a bearer token plus the
	// user. Returns domain.ErrInvalidCredentials on mismatch.
	Authenticate(ctx context.Context, email, password string) (string, *domain.User, error)

	// Resolve maps a bearer token to an account id. Returns
	// domain.ErrAuthExpired when the token cannot be resolved.
	Resolve(ctx context.Context, token string) (string, error)

	// GetUser returns gateway-known metadata for an account id. Used as the
	// reconciliation fallback for entitlement records that predate the store.
	// Returns domain.ErrAccountNotFound for unknown ids.
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
