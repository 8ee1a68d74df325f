package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/todo-app/backend/internal/config"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

func (k TokenKind) valid() bool {
	return k == TokenKindAccess || k == TokenKindRefresh
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Claims is the signed claim set carried by both token kinds.
type Claims struct {
	Subject   int64
	IssuedAt  time.Time
	ExpiresAt time.Time
	Kind      TokenKind
	ID        string
}

type tokenClaims struct {
	Kind TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies claim sets with a single HMAC secret.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	parser *jwt.Parser
}

func NewTokenCodec(cfg config.AuthConfig, now Clock) (*TokenCodec, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: SECRET_KEY is required", ErrMisconfigured)
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMisconfigured, cfg.Algorithm)
	}
	if now == nil {
		now = time.Now
	}

	return &TokenCodec{
		secret: []byte(cfg.SecretKey),
		method: method,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// Encode signs claims. Timestamps are truncated to whole seconds, the
// precision of the JWT NumericDate.
func (c *TokenCodec) Encode(claims Claims) (string, error) {
	if claims.Subject <= 0 {
		return "", fmt.Errorf("%w: subject must be positive", ErrInvalidClaims)
	}
	if !claims.Kind.valid() {
		return "", fmt.Errorf("%w: unknown token kind %q", ErrInvalidClaims, claims.Kind)
	}
	issuedAt := claims.IssuedAt.Truncate(time.Second)
	expiresAt := claims.ExpiresAt.Truncate(time.Second)
	if !issuedAt.Before(expiresAt) {
		return "", fmt.Errorf("%w: issued_at must precede expires_at", ErrInvalidClaims)
	}

	token := jwt.NewWithClaims(c.method, tokenClaims{
		Kind: claims.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.Subject, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        claims.ID,
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, the claim structure and expiry at the
// current clock. An iat ahead of the clock is accepted so that replicas
// with slightly skewed clocks agree. Every failure wraps ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (Claims, error) {
	var tc tokenClaims
	_, err := c.parser.ParseWithClaims(tokenString, &tc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if tc.IssuedAt == nil {
		return Claims{}, fmt.Errorf("%w: %w: iat is required", ErrInvalidToken, jwt.ErrTokenMalformed)
	}
	if !tc.Kind.valid() {
		return Claims{}, fmt.Errorf("%w: %w: unknown type %q", ErrInvalidToken, jwt.ErrTokenMalformed, tc.Kind)
	}
	subject, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil || subject <= 0 {
		return Claims{}, fmt.Errorf("%w: %w: subject %q", ErrInvalidToken, jwt.ErrTokenMalformed, tc.Subject)
	}

	return Claims{
		Subject:   subject,
		IssuedAt:  tc.IssuedAt.Time.UTC(),
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
		Kind:      tc.Kind,
		ID:        tc.ID,
	}, nil
}

// FailureReason classifies a Decode error for internal logs only.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return "not_yet_valid"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "malformed"
	default:
		return "invalid"
	}
}
