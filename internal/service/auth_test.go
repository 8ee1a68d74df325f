package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todo-app/backend/internal/auth"
	"github.com/todo-app/backend/internal/db"
	"github.com/todo-app/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users     map[string]*model.User
	nextID    int64
	createErr error
	lookupErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[email]; ok {
		return nil, db.ErrDuplicateEmail
	}
	f.nextID++
	user := &model.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, IsActive: true, CreatedAt: time.Now()}
	f.users[email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, model.ErrNotFound
}

func newTestAuthService(t *testing.T, repo UserRepository) *AuthService {
	t.Helper()
	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(repo, hasher, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice@Example.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "p1", user.PasswordHash)
	assert.True(t, user.IsActive)

	got, err := svc.Login(ctx, "alice@example.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "p1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "A@example.com", "p2")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRaceMapsToConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = db.ErrDuplicateEmail
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "a@example.com", "p1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterPasswordByteLimit(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	// 40 runes, 80 bytes.
	_, err := svc.Register(ctx, "a@example.com", strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Empty(t, repo.users)

	_, err = svc.Register(ctx, "a@example.com", strings.Repeat("é", 36))
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "p1")
	require.NoError(t, err)
	inactive, err := svc.Register(ctx, "b@example.com", "p1")
	require.NoError(t, err)
	inactive.IsActive = false

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong-password", "a@example.com", "p2", ErrInvalidCredentials},
		{"unknown-email", "nobody@example.com", "p1", ErrInvalidCredentials},
		{"inactive", "b@example.com", "p1", ErrInactiveUser},
		{"inactive-wrong-password", "b@example.com", "nope", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginStoreFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.lookupErr = errors.New("db down")
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "a@example.com", "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
