package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/todo-app/backend/internal/model"
)

// Authenticator resolves the access credential on a request to an active
// user. It never mutates session state.
type Authenticator struct {
	codec      *TokenCodec
	users      UserStore
	cookieName string
	logger     *slog.Logger
}

func NewAuthenticator(codec *TokenCodec, users UserStore, cookieName string, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		codec:      codec,
		users:      users,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Authenticate returns ErrUnauthenticated for any credential problem. Other
// errors come from the store and should be treated as internal failures.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*model.User, error) {
	token := extractToken(r, a.cookieName)
	if token == "" {
		return nil, reject(ctx, a.logger, "authenticate", "missing_token", nil)
	}

	claims, err := a.codec.Decode(token)
	if err != nil {
		return nil, reject(ctx, a.logger, "authenticate", FailureReason(err), err)
	}
	if claims.Kind != TokenKindAccess {
		return nil, reject(ctx, a.logger, "authenticate", "wrong_kind", nil)
	}

	return resolveActiveUser(ctx, a.users, a.logger, "authenticate", claims.Subject)
}

// extractToken prefers the cookie and falls back to a bearer header.
func extractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func resolveActiveUser(ctx context.Context, users UserStore, logger *slog.Logger, op string, id int64) (*model.User, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, reject(ctx, logger, op, "unknown_user", nil, "user_id", id)
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	if !user.IsActive {
		return nil, reject(ctx, logger, op, "inactive_user", nil, "user_id", id)
	}
	return user, nil
}

func reject(ctx context.Context, logger *slog.Logger, op, reason string, cause error, args ...any) error {
	args = append(args, "op", op, "reason", reason)
	if cause != nil {
		args = append(args, "error", cause.Error())
	}
	logger.DebugContext(ctx, "auth rejected", args...)
	return ErrUnauthenticated
}
