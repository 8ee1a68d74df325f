package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/db"
	"github.com/todo-app/backend/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("email already registered")
	ErrInactiveUser       = errors.New("inactive user")
	ErrPasswordTooLong    = fmt.Errorf("password exceeds %d bytes", auth.MaxPasswordBytes)
)

type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService owns credential checks. Session issuance stays with the HTTP
// layer because it writes cookies.
type AuthService struct {
	repo      UserRepository
	passwords *auth.PasswordHasher
	logger    *slog.Logger
}

func NewAuthService(repo UserRepository, passwords *auth.PasswordHasher, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{repo: repo, passwords: passwords, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if len(password) > auth.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	email = normalizeEmail(email)

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrConflict
	}
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, email, hash)
	if err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, db.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login returns ErrInvalidCredentials for both unknown emails and wrong
// passwords. The active check runs only after the password matched.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.passwords.VerifyMissing(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// normalizeEmail lowercases only. The binding layer already rejects
// addresses with surrounding whitespace.
func normalizeEmail(email string) string {
	return strings.ToLower(email)
}
