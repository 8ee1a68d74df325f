package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/todo-app/backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:         "test-secret",
		Algorithm:         "HS256",
		AccessTTL:         15 * time.Minute,
		RefreshTTL:        7 * 24 * time.Hour,
		BcryptCost:        bcrypt.MinCost,
		AccessCookieName:  "access_token",
		RefreshCookieName: "refresh_token",
		CSRFCookieName:    "csrf_token",
		CSRFHeaderName:    "X-CSRF-Token",
		CSRFExemptPaths:   []string{"/auth/login", "/auth/register", "/auth/refresh", "/auth/logout"},
		CookieSameSite:    config.SameSiteLax,
	}
}

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestCodec(t *testing.T, now Clock) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testAuthConfig(), now)
	require.NoError(t, err)
	return codec
}

func cookiesByName(cookies []*http.Cookie) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		out[c.Name] = c
	}
	return out
}
