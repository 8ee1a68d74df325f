package auth

import (
	"log/slog"

	"github.com/todo-app/backend/internal/config"
)

// Kit bundles the auth components built from one configuration.
type Kit struct {
	Codec         *TokenCodec
	Passwords     *PasswordHasher
	Issuer        *Issuer
	Authenticator *Authenticator
	Refresher     *Refresher
	CSRF          *CSRFGuard
}

func NewKit(cfg config.AuthConfig, apiPrefix string, users UserStore, now Clock, logger *slog.Logger) (*Kit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := NewTokenCodec(cfg, now)
	if err != nil {
		return nil, err
	}
	passwords, err := NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	issuer := NewIssuer(codec, cfg, now)

	return &Kit{
		Codec:         codec,
		Passwords:     passwords,
		Issuer:        issuer,
		Authenticator: NewAuthenticator(codec, users, cfg.AccessCookieName, logger),
		Refresher:     NewRefresher(codec, users, issuer, cfg.RefreshCookieName, logger),
		CSRF:          NewCSRFGuard(cfg, apiPrefix),
	}, nil
}
