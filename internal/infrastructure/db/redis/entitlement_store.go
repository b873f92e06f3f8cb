package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baselinehq/pricing-api/internal/core/domain"
)

// Key layout. Records are JSON-encoded; verification codes are plain strings
// with a TTL.
const (
	accountKeyPrefix = "account:"
	deviceKeyPrefix  = "device:"
	verifyKeyPrefix  = "verify:"
)

// EntitlementStore implements ports.EntitlementStore on Redis. Plain GET/SET
// only: no compare-and-swap, so read-modify-write callers can lose updates
// under concurrency for the same key.
type EntitlementStore struct {
	client *redis.Client
}

// NewEntitlementStore wraps the given Redis client.
func NewEntitlementStore(client *redis.Client) *EntitlementStore {
	return &EntitlementStore{client: client}
}

func (s *EntitlementStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	ok, err := s.getJSON(ctx, accountKeyPrefix+id, &account)
	if err != nil || !ok {
		return nil, err
	}
	return &account, nil
}

func (s *EntitlementStore) SetAccount(ctx context.Context, id string, account *domain.Account) error {
	return s.setJSON(ctx, accountKeyPrefix+id, account)
}

func (s *EntitlementStore) GetDevice(ctx context.Context, fingerprint string) (*domain.Device, error) {
	var device domain.Device
	ok, err := s.getJSON(ctx, deviceKeyPrefix+fingerprint, &device)
	if err != nil || !ok {
		return nil, err
	}
	return &device, nil
}

func (s *EntitlementStore) SetDevice(ctx context.Context, fingerprint string, device *domain.Device) error {
	return s.setJSON(ctx, deviceKeyPrefix+fingerprint, device)
}

func (s *EntitlementStore) SetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, verifyKeyPrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("set code: %w", err)
	}
	return nil
}

func (s *EntitlementStore) GetCode(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, verifyKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get code: %w", err)
	}
	return code, nil
}

func (s *EntitlementStore) DeleteCode(ctx context.Context, email string) error {
	return s.client.Del(ctx, verifyKeyPrefix+email).Err()
}

// getJSON reports (false, nil) when the key is absent.
func (s *EntitlementStore) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *EntitlementStore) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
