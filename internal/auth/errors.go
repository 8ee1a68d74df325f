package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated covers every identity failure. Callers get no hint
	// about which check failed.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden is the CSRF rejection class.
	ErrForbidden        = errors.New("forbidden")
	ErrCSRFTokenMissing = fmt.Errorf("%w: csrf token missing", ErrForbidden)
	ErrCSRFTokenInvalid = fmt.Errorf("%w: csrf token invalid", ErrForbidden)

	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
	ErrMisconfigured = errors.New("auth config invalid")
)
