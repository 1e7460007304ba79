package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/repository"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type revocationEntry struct {
	reason domain.RevocationReason
	ttl    time.Duration
}

type memoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]revocationEntry
	failure error
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{entries: make(map[string]revocationEntry)}
}

func (m *memoryRevocationStore) Revoke(_ context.Context, token string, reason domain.RevocationReason, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	m.entries[token] = revocationEntry{reason: reason, ttl: ttl}
	return nil
}

func (m *memoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, domain.RevocationReason, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return false, "", m.failure
	}
	entry, ok := m.entries[token]
	if !ok {
		return false, "", nil
	}
	return true, entry.reason, nil
}

func (m *memoryRevocationStore) entryFor(token string) (revocationEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[token]
	return entry, ok
}

type authFixture struct {
	service     *AuthService
	revocations *memoryRevocationStore
	clock       *time.Time
}

func newAuthFixture(t *testing.T, mode domain.DegradationPolicyMode) *authFixture {
	t.Helper()

	hash, err := security.HashPassword("shelving-rules")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	users := &stubUserRepo{users: map[string]*domain.User{
		"worker@aptitude.example.com": {
			ID:           "5b6ce8a1-0000-4000-8000-000000000001",
			Email:        "worker@aptitude.example.com",
			PasswordHash: hash,
			FirstName:    "Alex",
			LastName:     "Rivera",
		},
	}}

	tokens, err := security.NewTokenService("test-secret", "smart-shelving")
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	revocations := newMemoryRevocationStore()

	service := NewAuthService(users, revocations, tokens, domain.NewDegradationPolicy(mode), zaptest.NewLogger(t)).
		WithClock(func() time.Time { return clock })

	return &authFixture{service: service, revocations: revocations, clock: &clock}
}

func (f *authFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestAuthService_LoginIssuesSessionToken(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.TTL != domain.SessionTokenTTL {
		t.Fatalf("expected standard lifetime %v, got %v", domain.SessionTokenTTL, result.TTL)
	}
	if result.User.PasswordHash != "" {
		t.Fatalf("password hash must not leave the use case")
	}
	if result.User.FirstName != "Alex" || result.User.LastName != "Rivera" {
		t.Fatalf("expected user names on the result, got %+v", result.User)
	}

	identity, err := f.service.ValidateToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if identity.Email != "worker@aptitude.example.com" {
		t.Fatalf("expected identity email to round-trip, got %s", identity.Email)
	}
}

func TestAuthService_LoginRememberMeExtendsLifetime(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)

	result, err := f.service.Login(context.Background(), "worker@aptitude.example.com", "shelving-rules", true)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.TTL != domain.ExtendedSessionTokenTTL {
		t.Fatalf("expected extended lifetime %v, got %v", domain.ExtendedSessionTokenTTL, result.TTL)
	}
}

func TestAuthService_LoginUniformFailure(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	_, unknownErr := f.service.Login(ctx, "nobody@aptitude.example.com", "shelving-rules", false)
	_, wrongErr := f.service.Login(ctx, "worker@aptitude.example.com", "wrong-password", false)

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("unknown email and wrong password must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestAuthService_LoginRequiresCredentials(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	if _, err := f.service.Login(ctx, "", "password", false); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if _, err := f.service.Login(ctx, "worker@aptitude.example.com", "", false); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.advance(30 * time.Minute)
	if _, err := f.service.ValidateToken(ctx, result.Token); err != nil {
		t.Fatalf("expected token valid at +30m, got %v", err)
	}

	f.advance(10 * time.Minute)
	if err := f.service.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	entry, ok := f.revocations.entryFor(result.Token)
	if !ok {
		t.Fatalf("expected a revocation entry after logout")
	}
	if entry.ttl != 20*time.Minute {
		t.Fatalf("expected revocation TTL capped at remaining lifetime 20m, got %v", entry.ttl)
	}
	if entry.reason != domain.RevocationReasonLogout {
		t.Fatalf("expected logout reason, got %q", entry.reason)
	}

	f.advance(time.Minute)
	if _, err := f.service.ValidateToken(ctx, result.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked at +41m, got %v", err)
	}
}

func TestAuthService_ValidateExpiredToken(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.advance(61 * time.Minute)
	if _, err := f.service.ValidateToken(ctx, result.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at +61m, got %v", err)
	}
}

func TestAuthService_ValidateRejectsMissingAndGarbage(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	if _, err := f.service.ValidateToken(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken for empty token, got %v", err)
	}
	if _, err := f.service.ValidateToken(ctx, "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage token, got %v", err)
	}
}

func TestAuthService_RevocationOutageStrict(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.revocations.failure = errors.New("connection refused")
	if _, err := f.service.ValidateToken(ctx, result.Token); !errors.Is(err, ErrRevocationUnavailable) {
		t.Fatalf("expected ErrRevocationUnavailable under strict policy, got %v", err)
	}
}

func TestAuthService_RevocationOutageLenient(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeLenient)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.revocations.failure = errors.New("connection refused")
	identity, err := f.service.ValidateToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("expected lenient policy to accept signature-valid token, got %v", err)
	}
	if identity.Email != "worker@aptitude.example.com" {
		t.Fatalf("expected identity from claims, got %s", identity.Email)
	}
}

func TestAuthService_LogoutIdempotent(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.service.Logout(ctx, result.Token)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("logout %d returned error: %v", i, err)
		}
	}

	if _, err := f.service.ValidateToken(ctx, result.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected revoked token after concurrent logouts, got %v", err)
	}
}

func TestAuthService_LogoutExpiredToken(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	result, err := f.service.Login(ctx, "worker@aptitude.example.com", "shelving-rules", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.advance(2 * time.Hour)
	if err := f.service.Logout(ctx, result.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired for stale logout, got %v", err)
	}

	if _, ok := f.revocations.entryFor(result.Token); ok {
		t.Fatalf("expired token must not leave a revocation entry")
	}
}

func TestAuthService_LogoutRejectsMissingAndGarbage(t *testing.T) {
	f := newAuthFixture(t, domain.DegradationPolicyModeStrict)
	ctx := context.Background()

	if err := f.service.Logout(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken for empty token, got %v", err)
	}
	if err := f.service.Logout(ctx, "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage token, got %v", err)
	}
}
