package ports

import (
	"context"
	"time"

	"github.com/baselinehq/pricing-api/internal/core/domain"
)

// EntitlementStore is the key-value persistence boundary for entitlement
// state. Keys are `account:<id>` and `device:<fingerprint>`.
//
// The store offers no transactions across keys and no compare-and-swap:
// every read-modify-write on a record can lose an update under concurrent
// calls for the same key. For calculation counters the consequence is
// undercounting a usage limit, which is accepted.
//
// Get methods return (nil, nil) when the key is absent.
type EntitlementStore interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	SetAccount(ctx context.Context, id string, account *domain.Account) error

	GetDevice(ctx context.Context, fingerprint string) (*domain.Device, error)
	SetDevice(ctx context.Context, fingerprint string, device *domain.Device) error

	// Verification codes live under `verify:<email>` and expire after ttl.
	SetCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
}
