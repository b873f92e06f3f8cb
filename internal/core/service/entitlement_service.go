package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/baselinehq/pricing-api/internal/core/domain"
	"github.com/baselinehq/pricing-api/internal/core/ports"
)

type entitlementService struct {
	store   ports.EntitlementStore
	gateway ports.SessionGateway
	log     zerolog.Logger
}

// NewEntitlementService returns the EntitlementService implementation backed
// by the given store and session gateway.
func NewEntitlementService(store ports.EntitlementStore, gateway ports.SessionGateway, log zerolog.Logger) ports.EntitlementService {
	return &entitlementService{store: store, gateway: gateway, log: log}
}

// Signup creates an account. Full access is granted when the license key is
// on the allow-list; device association is recorded best-effort.
func (s *entitlementService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AccountSummary, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: email, password, and name are required", domain.ErrValidation)
	}

	hasFullAccess := domain.ValidLicenseKey(in.LicenseKey)

	user, err := s.gateway.CreateUser(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create user: %w: %w", domain.ErrUpstream, err)
	}

	account := &domain.Account{
		Email:            in.Email,
		Name:             in.Name,
		HasFullAccess:    hasFullAccess,
		CalculationsUsed: 0,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.SetAccount(ctx, user.ID, account); err != nil {
		return nil, fmt.Errorf("signup: store account: %w: %w", domain.ErrUpstream, err)
	}

	// Device tracking must never fail the signup.
	if in.DeviceFingerprint != "" {
		if err := s.TrackDevice(ctx, ports.TrackDeviceInput{
			Fingerprint: in.DeviceFingerprint,
			Action:      ports.ActionSignup,
			AccountID:   user.ID,
		}); err != nil {
			s.log.Warn().Err(err).Str("account_id", user.ID).Msg("device tracking failed during signup")
		}
	}

	s.log.Info().Str("account_id", user.ID).Bool("full_access", hasFullAccess).Msg("account created")

	return &ports.AccountSummary{
		ID:               user.ID,
		Email:            in.Email,
		Name:             in.Name,
		HasFullAccess:    hasFullAccess,
		CalculationsUsed: 0,
	}, nil
}

// RecordCalculation counts one calculation against the free cap.
//
// The read-then-write is not atomic: two concurrent calls for the same
// account may both observe the same count and lose one increment. That only
// undercounts a usage limit and is accepted.
func (s *entitlementService) RecordCalculation(ctx context.Context, accountID string) (ports.CalculationResult, error) {
	account, err := s.loadOrSeedAccount(ctx, accountID)
	if err != nil {
		return ports.CalculationResult{}, fmt.Errorf("record calculation: %w", err)
	}

	if account.HasFullAccess {
		return ports.CalculationResult{
			Allowed:       true,
			HasFullAccess: true,
			Remaining:     -1,
		}, nil
	}

	if account.CalculationsUsed >= domain.FreeCalculationLimit {
		return ports.CalculationResult{
			Allowed:          false,
			LimitReached:     true,
			CalculationsUsed: account.CalculationsUsed,
			Remaining:        0,
		}, nil
	}

	account.CalculationsUsed++
	if err := s.store.SetAccount(ctx, accountID, account); err != nil {
		return ports.CalculationResult{}, fmt.Errorf("record calculation: store account: %w: %w", domain.ErrUpstream, err)
	}

	s.log.Debug().Str("account_id", accountID).Int("used", account.CalculationsUsed).Msg("calculation recorded")

	return ports.CalculationResult{
		Allowed:          true,
		CalculationsUsed: account.CalculationsUsed,
		Remaining:        domain.FreeCalculationLimit - account.CalculationsUsed,
	}, nil
}

// Upgrade grants full access for a valid license key. Idempotent: a second
// call with a valid key is a no-op.
func (s *entitlementService) Upgrade(ctx context.Context, token, licenseKey string) error {
	if !domain.ValidLicenseKey(licenseKey) {
		return domain.ErrInvalidLicense
	}

	accountID, err := s.gateway.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			return err
		}
		return fmt.Errorf("upgrade: resolve token: %w: %w", domain.ErrUpstream, err)
	}

	account, err := s.loadOrSeedAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	account.HasFullAccess = true
	if err := s.store.SetAccount(ctx, accountID, account); err != nil {
		return fmt.Errorf("upgrade: store account: %w: %w", domain.ErrUpstream, err)
	}

	s.log.Info().Str("account_id", accountID).Msg("account upgraded to full access")
	return nil
}

// CheckDevice reports whether a fingerprint is under the abuse thresholds.
// Read-only and advisory; an unseen device is allowed with zero usage.
func (s *entitlementService) CheckDevice(ctx context.Context, fingerprint string) (ports.DeviceStatus, error) {
	if fingerprint == "" {
		return ports.DeviceStatus{}, fmt.Errorf("%w: device fingerprint required", domain.ErrValidation)
	}

	device, err := s.store.GetDevice(ctx, fingerprint)
	if err != nil {
		return ports.DeviceStatus{}, fmt.Errorf("check device: %w: %w", domain.ErrUpstream, err)
	}
	if device == nil {
		return ports.DeviceStatus{Allowed: true}, nil
	}

	return ports.DeviceStatus{
		Allowed:         device.WithinLimits(),
		Calculations:    device.Calculations,
		AccountsCreated: len(device.Accounts),
	}, nil
}

// TrackDevice upserts the device record for one action. The accounts set
// never grows from repeated signups with the same account id.
func (s *entitlementService) TrackDevice(ctx context.Context, in ports.TrackDeviceInput) error {
	if in.Fingerprint == "" {
		return fmt.Errorf("%w: device fingerprint required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	device, err := s.store.GetDevice(ctx, in.Fingerprint)
	if err != nil {
		return fmt.Errorf("track device: %w: %w", domain.ErrUpstream, err)
	}
	if device == nil {
		device = &domain.Device{FirstSeen: now}
	}

	switch in.Action {
	case ports.ActionCalculate:
		device.Calculations++
	case ports.ActionSignup:
		if in.AccountID != "" && !device.HasAccount(in.AccountID) {
			device.Accounts = append(device.Accounts, in.AccountID)
		}
	}
	device.LastSeen = now

	if err := s.store.SetDevice(ctx, in.Fingerprint, device); err != nil {
		return fmt.Errorf("track device: store: %w: %w", domain.ErrUpstream, err)
	}
	return nil
}

// GetAccount returns the merged account view, preferring the entitlement
// record over gateway metadata.
func (s *entitlementService) GetAccount(ctx context.Context, accountID string) (*ports.AccountSummary, error) {
	user, err := s.gateway.GetUser(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get account: %w: %w", domain.ErrUpstream, err)
	}

	summary := &ports.AccountSummary{
		ID:    accountID,
		Email: user.Email,
		Name:  user.Name,
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w: %w", domain.ErrUpstream, err)
	}
	if account != nil {
		if account.Name != "" {
			summary.Name = account.Name
		}
		summary.HasFullAccess = account.HasFullAccess
		summary.CalculationsUsed = account.CalculationsUsed
	}
	if summary.Name == "" {
		summary.Name = localPart(user.Email)
	}
	return summary, nil
}

// loadOrSeedAccount reads the entitlement record, default-constructing one
// from session-gateway metadata when absent. This reconciles accounts that
// predate the store.
func (s *entitlementService) loadOrSeedAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w: %w", domain.ErrUpstream, err)
	}
	if account != nil {
		return account, nil
	}

	user, err := s.gateway.GetUser(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load user: %w: %w", domain.ErrUpstream, err)
	}

	name := user.Name
	if name == "" {
		name = localPart(user.Email)
	}
	account = &domain.Account{
		Email:     user.Email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SetAccount(ctx, accountID, account); err != nil {
		return nil, fmt.Errorf("seed account: %w: %w", domain.ErrUpstream, err)
	}

	s.log.Info().Str("account_id", accountID).Msg("seeded entitlement record from gateway metadata")
	return account, nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
