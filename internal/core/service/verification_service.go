package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/baselinehq/pricing-api/internal/core/domain"
	"github.com/baselinehq/pricing-api/internal/core/ports"
)

const codeTTL = 10 * time.Minute

type verificationService struct {
	store ports.EntitlementStore
	log   zerolog.Logger
}

// NewVerificationService returns a VerificationService that keeps codes in
// the entitlement store with a TTL, so correctness does not depend on
// process lifetime.
func NewVerificationService(store ports.EntitlementStore, log zerolog.Logger) ports.VerificationService {
	return &verificationService{store: store, log: log}
}

func (s *verificationService) SendCode(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email required", domain.ErrValidation)
	}

	code := generateCode()
	if err := s.store.SetCode(ctx, email, code, codeTTL); err != nil {
		return "", fmt.Errorf("send verification: %w: %w", domain.ErrUpstream, err)
	}

	// No email sender is configured; the code is logged and returned so
	// preview deployments can surface it.
	s.log.Info().Str("email", email).Msg("verification code issued")
	return code, nil
}

func (s *verificationService) VerifyCode(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code required", domain.ErrValidation)
	}

	stored, err := s.store.GetCode(ctx, email)
	if err != nil {
		return fmt.Errorf("verify code: %w: %w", domain.ErrUpstream, err)
	}
	if stored == "" || stored != code {
		return domain.ErrCodeMismatch
	}

	if err := s.store.DeleteCode(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to delete consumed verification code")
	}
	return nil
}

// generateCode returns a 6-digit numeric code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// fallback: derive from the clock
		return fmt.Sprintf("%06d", time.Now().UnixNano()%900000+100000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
