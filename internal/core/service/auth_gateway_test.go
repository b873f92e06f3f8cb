package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baselinehq/pricing-api/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User // by id
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrAccountExists
		}
	}
	clone := *user
	clone.ID = "id-" + user.Email
	r.users[clone.ID] = &clone
	return &clone, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return u, nil
}

func TestAuthGateway_CreateUser_HashesPassword(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	user, err := gw.CreateUser(context.Background(), "alice@example.com", "s3cret99", "Alice")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.PasswordHash == "s3cret99" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret99")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthGateway_CreateUser_Duplicate(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	if _, err := gw.CreateUser(context.Background(), "bob@example.com", "pass1234", "Bob"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := gw.CreateUser(context.Background(), "bob@example.com", "other123", "Bob"); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthGateway_Authenticate_Roundtrip(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	created, err := gw.CreateUser(context.Background(), "carol@example.com", "pass1234", "Carol")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, user, err := gw.Authenticate(context.Background(), "carol@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if token == "" || user == nil || user.ID != created.ID {
		t.Fatalf("unexpected authenticate result: token=%q user=%+v", token, user)
	}

	// The token resolves back to the same account id.
	id, err := gw.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id != created.ID {
		t.Fatalf("resolved id %q, want %q", id, created.ID)
	}
}

func TestAuthGateway_Authenticate_WrongPassword(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)
	_, _ = gw.CreateUser(context.Background(), "dave@example.com", "goodpass", "Dave")

	if _, _, err := gw.Authenticate(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthGateway_Authenticate_UnknownEmail(t *testing.T) {
	// Unknown emails report the same error as bad passwords so login does not
	// disclose which emails exist.
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	if _, _, err := gw.Authenticate(context.Background(), "ghost@example.com", "pass1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthGateway_Resolve_Garbage(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	if _, err := gw.Resolve(context.Background(), "not-a-jwt"); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}

func TestAuthGateway_Resolve_WrongSecret(t *testing.T) {
	issuer := NewAuthGateway(newStubAuthRepo(), "secret-a", time.Hour)
	verifier := NewAuthGateway(newStubAuthRepo(), "secret-b", time.Hour)

	_, _ = issuer.CreateUser(context.Background(), "eve@example.com", "pass1234", "Eve")
	token, _, err := issuer.Authenticate(context.Background(), "eve@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if _, err := verifier.Resolve(context.Background(), token); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired for wrong secret, got %v", err)
	}
}

func TestAuthGateway_Resolve_ExpiredToken(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	claims := jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := gw.Resolve(context.Background(), token); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired for expired token, got %v", err)
	}
}

func TestAuthGateway_Resolve_MissingSubject(t *testing.T) {
	gw := NewAuthGateway(newStubAuthRepo(), "secret", time.Hour)

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := gw.Resolve(context.Background(), token); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired for missing sub, got %v", err)
	}
}
