package auth

import (
	"context"

	"github.com/todo-app/backend/internal/model"
)

type userContextKey struct{}

// WithUser binds the authenticated user to a request context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*model.User)
	return user, ok && user != nil
}
