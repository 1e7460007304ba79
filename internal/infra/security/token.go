package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
)

var (
	// ErrSigningSecretMissing indicates the token signing secret is not configured.
	// This must abort startup; tokens can neither be issued nor verified without it.
	ErrSigningSecretMissing = errors.New("token: signing secret is not configured")
	// ErrTokenInvalid indicates a token failed signature or structural validation.
	ErrTokenInvalid = errors.New("token: invalid")
	// ErrTokenExpired indicates a token is past its expiry.
	ErrTokenExpired = errors.New("token: expired")
)

// SessionClaims is the payload embedded in a session token. The subject is the
// user's email; no server-side state is referenced.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// Identity converts validated claims into the domain identity.
func (c *SessionClaims) Identity() domain.Identity {
	identity := domain.Identity{Email: c.Subject}
	if c.IssuedAt != nil {
		identity.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		identity.ExpiresAt = c.ExpiresAt.Time
	}
	return identity
}

// TokenService issues and verifies HS256 session tokens against a single
// server-held secret.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService constructs a TokenService. An empty secret is a configuration
// error and must be treated as fatal by the caller.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSigningSecretMissing
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// Issue signs a session token for the subject with the supplied lifetime.
func (s *TokenService) Issue(email string, ttl time.Duration) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("token: subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token: ttl must be positive")
	}

	now := s.now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Parse verifies signature and expiry and returns the decoded claims.
func (s *TokenService) Parse(raw string) (*SessionClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// RemainingLifetime reports how long the claims stay valid from now. Zero or
// negative means the token already expired.
func (s *TokenService) RemainingLifetime(claims *SessionClaims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Time.Sub(s.now())
}

// GenerateSecureToken returns a base64 URL-safe random string using the specified number of random bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken calculates a SHA-256 hash of the provided value. Revocation keys
// are derived from this so raw tokens never appear in the cache.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
