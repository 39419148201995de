package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stackingup/chat-server/internal/store"
)

var (
	// ErrBadLogin is returned when username/password don't match.
	ErrBadLogin = errors.New("invalid username or password")
	// ErrUserExists is returned when registering an already-taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidUsername is returned when a username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when a password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service issues credentials for accounts. The chat relay itself only
// verifies credentials; these operations exist so a standalone deployment has
// a way to mint the authToken cookie.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a new user with a hashed password and returns a signed token.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return "", ErrInvalidUsername
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}

	if existing, err := s.store.GetUserByUsername(ctx, username); err == nil && existing != nil {
		return "", ErrUserExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, hashed)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Login validates credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", ErrBadLogin
	}

	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return "", ErrBadLogin
	}

	token, err := GenerateToken(s.jwtConfig, user.ID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
