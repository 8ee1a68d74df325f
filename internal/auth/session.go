package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/todo-app/backend/internal/config"
	"github.com/todo-app/backend/internal/model"
)

const (
	csrfTokenBytes    = 32
	exposeHeadersName = "Access-Control-Expose-Headers"
)

// Session is everything one issuance writes to the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	CSRFToken    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// CookieSettings is the single source of cookie attributes. Setting and
// clearing both go through cookie(), so the attributes always match.
type CookieSettings struct {
	AccessName  string
	RefreshName string
	CSRFName    string
	CSRFHeader  string
	Path        string
	Domain      string
	Secure      bool
	SameSite    http.SameSite
}

func NewCookieSettings(cfg config.AuthConfig) CookieSettings {
	return CookieSettings{
		AccessName:  cfg.AccessCookieName,
		RefreshName: cfg.RefreshCookieName,
		CSRFName:    cfg.CSRFCookieName,
		CSRFHeader:  cfg.CSRFHeaderName,
		Path:        "/",
		Domain:      cfg.CookieDomain,
		Secure:      cfg.CookieSecure,
		SameSite:    cfg.CookieSameSite.HTTP(),
	}
}

func (s CookieSettings) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.Path,
		Domain:   s.Domain,
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: httpOnly,
		SameSite: s.SameSite,
	}
}

// Issuer mints token pairs and writes the session cookie triple.
type Issuer struct {
	codec      *TokenCodec
	now        Clock
	accessTTL  time.Duration
	refreshTTL time.Duration
	cookies    CookieSettings
}

func NewIssuer(codec *TokenCodec, cfg config.AuthConfig, now Clock) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		codec:      codec,
		now:        now,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		cookies:    NewCookieSettings(cfg),
	}
}

func (i *Issuer) Cookies() CookieSettings {
	return i.cookies
}

// Issue does all fallible work up front: both tokens and the CSRF value
// exist before any cookie is written.
func (i *Issuer) Issue(user *model.User) (Session, error) {
	now := i.now()

	access, err := i.codec.Encode(Claims{
		Subject:   user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.accessTTL),
		Kind:      TokenKindAccess,
		ID:        uuid.NewString(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := i.codec.Encode(Claims{
		Subject:   user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.refreshTTL),
		Kind:      TokenKindRefresh,
		ID:        uuid.NewString(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	csrf, err := newCSRFToken()
	if err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken:  access,
		RefreshToken: refresh,
		CSRFToken:    csrf,
		AccessTTL:    i.accessTTL,
		RefreshTTL:   i.refreshTTL,
	}, nil
}

// AttachCookies writes the triple, echoes the CSRF value in a response
// header and makes that header readable cross-origin.
func (i *Issuer) AttachCookies(w http.ResponseWriter, s Session) {
	c := i.cookies
	http.SetCookie(w, c.cookie(c.AccessName, s.AccessToken, seconds(s.AccessTTL), true))
	http.SetCookie(w, c.cookie(c.RefreshName, s.RefreshToken, seconds(s.RefreshTTL), true))
	http.SetCookie(w, c.cookie(c.CSRFName, s.CSRFToken, seconds(s.RefreshTTL), false))

	w.Header().Set(c.CSRFHeader, s.CSRFToken)
	AppendExposeHeader(w.Header(), c.CSRFHeader)
}

// ClearCookies expires exactly the three session cookies.
func (i *Issuer) ClearCookies(w http.ResponseWriter) {
	c := i.cookies
	for _, name := range []string{c.AccessName, c.RefreshName, c.CSRFName} {
		cookie := c.cookie(name, "", -1, name != c.CSRFName)
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(w, cookie)
	}
}

// AppendExposeHeader adds name to Access-Control-Expose-Headers unless it
// is already listed (case-insensitive).
func AppendExposeHeader(h http.Header, name string) {
	var parts []string
	for _, value := range h.Values(exposeHeadersName) {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.EqualFold(part, name) {
				return
			}
			parts = append(parts, part)
		}
	}
	h.Set(exposeHeadersName, strings.Join(append(parts, name), ", "))
}

func newCSRFToken() (string, error) {
	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
