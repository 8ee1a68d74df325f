package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/todo-app/backend/internal/config"
)

// CSRFGuard enforces the double-submit cookie pattern. It does not look at
// the session at all.
type CSRFGuard struct {
	cookieName string
	headerName string
	exempt     map[string]struct{}
}

// NewCSRFGuard exempts each configured path both as given and under the
// API prefix.
func NewCSRFGuard(cfg config.AuthConfig, apiPrefix string) *CSRFGuard {
	exempt := make(map[string]struct{}, len(cfg.CSRFExemptPaths)*2)
	for _, p := range cfg.CSRFExemptPaths {
		p = normalizePath(p)
		exempt[p] = struct{}{}
		if apiPrefix != "" {
			exempt[normalizePath(apiPrefix+p)] = struct{}{}
		}
	}
	return &CSRFGuard{
		cookieName: cfg.CSRFCookieName,
		headerName: cfg.CSRFHeaderName,
		exempt:     exempt,
	}
}

func (g *CSRFGuard) Check(r *http.Request) error {
	if isSafeMethod(r.Method) {
		return nil
	}
	if _, ok := g.exempt[normalizePath(r.URL.Path)]; ok {
		return nil
	}

	var cookieValue string
	if cookie, err := r.Cookie(g.cookieName); err == nil {
		cookieValue = cookie.Value
	}
	headerValue := r.Header.Get(g.headerName)
	if cookieValue == "" || headerValue == "" {
		return ErrCSRFTokenMissing
	}
	if subtle.ConstantTimeCompare([]byte(cookieValue), []byte(headerValue)) != 1 {
		return ErrCSRFTokenInvalid
	}
	return nil
}

func isSafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
