package security

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T, now time.Time) *TokenService {
	t.Helper()

	svc, err := NewTokenService("test-secret", "smart-shelving")
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	return svc.WithClock(func() time.Time { return now })
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	if _, err := NewTokenService("", "smart-shelving"); !errors.Is(err, ErrSigningSecretMissing) {
		t.Fatalf("expected ErrSigningSecretMissing, got %v", err)
	}
	if _, err := NewTokenService("   ", "smart-shelving"); !errors.Is(err, ErrSigningSecretMissing) {
		t.Fatalf("expected ErrSigningSecretMissing for blank secret, got %v", err)
	}
}

func TestTokenService_IssueAndParse(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now)

	token, err := svc.Issue("worker@aptitude.example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if claims.Subject != "worker@aptitude.example.com" {
		t.Fatalf("expected subject to round-trip, got %s", claims.Subject)
	}

	identity := claims.Identity()
	if !identity.IssuedAt.Equal(now) {
		t.Fatalf("expected issued at %v, got %v", now, identity.IssuedAt)
	}
	if !identity.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), identity.ExpiresAt)
	}
}

func TestTokenService_ParseAfterExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	svc, err := NewTokenService("test-secret", "smart-shelving")
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	svc.WithClock(func() time.Time { return clock })

	token, err := svc.Issue("worker@aptitude.example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	clock = now.Add(30 * time.Minute)
	if _, err := svc.Parse(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	clock = now.Add(61 * time.Minute)
	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after expiry, got %v", err)
	}
}

func TestTokenService_ParseRejectsForeignSignature(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now)

	other, err := NewTokenService("different-secret", "smart-shelving")
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	other.WithClock(func() time.Time { return now })

	token, err := other.Issue("worker@aptitude.example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

func TestTokenService_ParseGarbage(t *testing.T) {
	svc := newTestTokenService(t, time.Now())

	for _, raw := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, err := svc.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", raw, err)
		}
	}
}

func TestTokenService_RemainingLifetime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	svc, err := NewTokenService("test-secret", "smart-shelving")
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	svc.WithClock(func() time.Time { return clock })

	token, err := svc.Issue("worker@aptitude.example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	clock = now.Add(40 * time.Minute)
	remaining := svc.RemainingLifetime(claims)
	if remaining != 20*time.Minute {
		t.Fatalf("expected 20m remaining, got %v", remaining)
	}

	if svc.RemainingLifetime(nil) != 0 {
		t.Fatalf("expected zero remaining for nil claims")
	}
}
