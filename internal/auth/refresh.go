package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/todo-app/backend/internal/model"
)

// Refresher rotates a session: a valid refresh cookie buys a brand new
// access/refresh/CSRF triple. The old refresh token is superseded, not
// revoked.
type Refresher struct {
	codec      *TokenCodec
	users      UserStore
	issuer     *Issuer
	cookieName string
	logger     *slog.Logger
}

func NewRefresher(codec *TokenCodec, users UserStore, issuer *Issuer, cookieName string, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		codec:      codec,
		users:      users,
		issuer:     issuer,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Refresh writes to w only after every check and the new issuance have
// succeeded. The Authorization header is ignored here.
func (f *Refresher) Refresh(ctx context.Context, r *http.Request, w http.ResponseWriter) (*model.User, error) {
	cookie, err := r.Cookie(f.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, reject(ctx, f.logger, "refresh", "missing_token", nil)
	}

	claims, err := f.codec.Decode(cookie.Value)
	if err != nil {
		return nil, reject(ctx, f.logger, "refresh", FailureReason(err), err)
	}
	if claims.Kind != TokenKindRefresh {
		return nil, reject(ctx, f.logger, "refresh", "wrong_kind", nil)
	}

	user, err := resolveActiveUser(ctx, f.users, f.logger, "refresh", claims.Subject)
	if err != nil {
		return nil, err
	}

	session, err := f.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	f.issuer.AttachCookies(w, session)
	return user, nil
}
