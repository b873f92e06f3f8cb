package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baselinehq/pricing-api/internal/core/domain"
	"github.com/baselinehq/pricing-api/internal/core/ports"
)

// AuthGateway implements the session gateway: it owns credentials and bearer
// tokens (HS256 JWTs with the account id in the sub claim).
type AuthGateway struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthGateway(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthGateway {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthGateway{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (g *AuthGateway) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	return g.repo.Create(ctx, user)
}

func (g *AuthGateway) Authenticate(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := g.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := g.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Resolve maps a bearer token to its account id. Any parse, signature, or
// expiry failure is reported as ErrAuthExpired so callers re-authenticate
// instead of retrying.
func (g *AuthGateway) Resolve(_ context.Context, token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(g.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrAuthExpired
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrAuthExpired
	}
	return sub, nil
}

func (g *AuthGateway) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return g.repo.FindByID(ctx, id)
}

func (g *AuthGateway) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"exp":   time.Now().Add(g.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(g.jwtSecret))
}
