package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	in := Claims{
		Subject:   42,
		IssuedAt:  testNow,
		ExpiresAt: testNow.Add(15 * time.Minute),
		Kind:      TokenKindAccess,
		ID:        "jti-1",
	}
	token, err := codec.Encode(in)
	require.NoError(t, err)

	out, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.Subject)
	assert.Equal(t, TokenKindAccess, out.Kind)
	assert.Equal(t, "jti-1", out.ID)
	assert.True(t, out.IssuedAt.Equal(in.IssuedAt))
	assert.True(t, out.ExpiresAt.Equal(in.ExpiresAt))
}

func TestTokenRoundTripTruncatesToSeconds(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	token, err := codec.Encode(Claims{
		Subject:   42,
		IssuedAt:  testNow.Add(400 * time.Millisecond),
		ExpiresAt: testNow.Add(15*time.Minute + 900*time.Millisecond),
		Kind:      TokenKindAccess,
	})
	require.NoError(t, err)

	out, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testNow, out.IssuedAt)
	assert.Equal(t, testNow.Add(15*time.Minute), out.ExpiresAt)
}

func TestTokenAcceptsIssuedAtAheadOfClock(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	token, err := codec.Encode(Claims{
		Subject:   1,
		IssuedAt:  testNow.Add(2 * time.Second),
		ExpiresAt: testNow.Add(15 * time.Minute),
		Kind:      TokenKindAccess,
	})
	require.NoError(t, err)

	out, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Subject)
}

func TestTokenExpired(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	token, err := codec.Encode(Claims{
		Subject:   1,
		IssuedAt:  testNow,
		ExpiresAt: testNow.Add(time.Minute),
		Kind:      TokenKindRefresh,
	})
	require.NoError(t, err)

	clock.now = testNow.Add(2 * time.Minute)
	_, err = codec.Decode(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, "expired", FailureReason(err))
}

func TestTokenWrongSecret(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	cfg := testAuthConfig()
	cfg.SecretKey = "another-secret"
	other, err := NewTokenCodec(cfg, clock.Now)
	require.NoError(t, err)

	token, err := other.Encode(Claims{Subject: 1, IssuedAt: testNow, ExpiresAt: testNow.Add(time.Hour), Kind: TokenKindAccess})
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, "signature", FailureReason(err))
}

func TestTokenRejectsOtherAlgorithm(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, tokenClaims{
		Kind: TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(testNow),
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformedClaims(t *testing.T) {
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)

	sign := func(claims tokenClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Subject:   "7",
		IssuedAt:  jwt.NewNumericDate(testNow),
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"unknown-kind", sign(tokenClaims{Kind: "session", RegisteredClaims: valid})},
		{"non-numeric-subject", func() string {
			rc := valid
			rc.Subject = "alice"
			return sign(tokenClaims{Kind: TokenKindAccess, RegisteredClaims: rc})
		}()},
		{"missing-iat", func() string {
			rc := valid
			rc.IssuedAt = nil
			return sign(tokenClaims{Kind: TokenKindAccess, RegisteredClaims: rc})
		}()},
		{"missing-exp", func() string {
			rc := valid
			rc.ExpiresAt = nil
			return sign(tokenClaims{Kind: TokenKindAccess, RegisteredClaims: rc})
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, "malformed", FailureReason(err))
		})
	}
}

func TestEncodeValidatesClaims(t *testing.T) {
	codec := newTestCodec(t, nil)

	tests := []struct {
		name   string
		claims Claims
	}{
		{"zero-subject", Claims{Subject: 0, IssuedAt: testNow, ExpiresAt: testNow.Add(time.Hour), Kind: TokenKindAccess}},
		{"bad-kind", Claims{Subject: 1, IssuedAt: testNow, ExpiresAt: testNow.Add(time.Hour), Kind: "other"}},
		{"exp-before-iat", Claims{Subject: 1, IssuedAt: testNow, ExpiresAt: testNow, Kind: TokenKindAccess}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Encode(tt.claims)
			require.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}

func TestNewTokenCodecRequiresHMAC(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Algorithm = "RS256"
	_, err := NewTokenCodec(cfg, nil)
	require.ErrorIs(t, err, ErrMisconfigured)

	cfg = testAuthConfig()
	cfg.SecretKey = ""
	_, err = NewTokenCodec(cfg, nil)
	require.ErrorIs(t, err, ErrMisconfigured)
}
