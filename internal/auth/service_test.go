package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stackingup/chat-server/internal/store/sqlite"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return NewService(st, &JWTConfig{
		Secret: []byte("test-secret"),
		Issuer: "chat-server-test",
		TTL:    time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatal("Register returned empty token")
	}

	token, err = svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The issued token must verify and carry the account identity.
	identity, err := NewVerifier(svc.jwtConfig).Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.UserID <= 0 {
		t.Errorf("UserID = %d, want positive", identity.UserID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "password456"); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "al", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "short"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrBadLogin) {
		t.Errorf("expected ErrBadLogin, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "password123"); !errors.Is(err, ErrBadLogin) {
		t.Errorf("expected ErrBadLogin, got %v", err)
	}
}
