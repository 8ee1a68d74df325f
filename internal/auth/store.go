package auth

import (
	"context"

	"github.com/todo-app/backend/internal/model"
)

// UserStore is the storage capability the auth core needs. Implementations
// return model.ErrNotFound when no user matches.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
