package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/logger"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email or password is incorrect. The same
	// error covers unknown emails so responses cannot reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoToken indicates no session token was presented.
	ErrNoToken = errors.New("no token provided")
	// ErrTokenRevoked indicates the token was invalidated before its natural expiry.
	ErrTokenRevoked = errors.New("token has been invalidated")
	// ErrTokenInvalid indicates the token failed signature or structural validation.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrRevocationUnavailable indicates revocation state could not be confirmed
	// and the configured policy forbids proceeding without it.
	ErrRevocationUnavailable = errors.New("revocation store unavailable")
)

// AuthService coordinates login, session-token validation, and logout.
type AuthService struct {
	users       port.UserRepository
	revocations port.RevocationStore
	tokens      *security.TokenService
	policy      domain.DegradationPolicy
	events      port.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
	sessionTTL  time.Duration
	extendedTTL time.Duration
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	revocations port.RevocationStore,
	tokens *security.TokenService,
	policy domain.DegradationPolicy,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}

	return &AuthService{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		policy:      policy,
		logger:      log,
		now:         time.Now,
		sessionTTL:  domain.SessionTokenTTL,
		extendedTTL: domain.ExtendedSessionTokenTTL,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
// The token service shares the same clock so expiry checks stay consistent.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
		s.tokens.WithClock(now)
	}
	return s
}

// WithTokenLifetimes overrides the standard and remember-me token lifetimes.
func (s *AuthService) WithTokenLifetimes(session, extended time.Duration) *AuthService {
	if session > 0 {
		s.sessionTTL = session
	}
	if extended > 0 {
		s.extendedTTL = extended
	}
	return s
}

// WithEventPublisher attaches an audit event publisher.
func (s *AuthService) WithEventPublisher(events port.EventPublisher) *AuthService {
	s.events = events
	return s
}

// LoginResult carries the issued token and its lifetime alongside the user.
type LoginResult struct {
	Token string
	TTL   time.Duration
	User  domain.User
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords return the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	ttl := s.sessionTTL
	if rememberMe {
		ttl = s.extendedTTL
	}

	token, err := s.tokens.Issue(user.Email, ttl)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return LoginResult{Token: token, TTL: ttl, User: sanitized}, nil
}

// ValidateToken runs the session gate: revocation check first (so an
// invalidated token reports as such even while signature-valid), then
// signature and expiry verification.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (domain.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Identity{}, ErrNoToken
	}

	revoked, _, err := s.revocations.IsRevoked(ctx, raw)
	if err != nil {
		if s.policy.IsStrict() {
			return domain.Identity{}, fmt.Errorf("%w: %w", ErrRevocationUnavailable, err)
		}
		s.logger.Warn("revocation check failed, continuing per lenient policy", zap.Error(err))
	} else if revoked {
		return domain.Identity{}, ErrTokenRevoked
	}

	claims, err := s.tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}
		return domain.Identity{}, ErrTokenInvalid
	}

	return claims.Identity(), nil
}

// Logout revokes the presented token for its remaining lifetime. Revocation is
// idempotent: concurrent logouts with the same token all converge to revoked.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrNoToken
	}

	claims, err := s.tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			// An expired token needs no revocation entry; it can never validate again.
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}

	remaining := s.tokens.RemainingLifetime(claims)
	if remaining <= 0 {
		return ErrTokenExpired
	}

	if err := s.revocations.Revoke(ctx, raw, domain.RevocationReasonLogout, remaining); err != nil {
		return fmt.Errorf("%w: %w", ErrRevocationUnavailable, err)
	}

	s.publishLoggedOut(ctx, claims.Subject)
	return nil
}

// PublishLoginSucceeded emits a best-effort login audit event.
func (s *AuthService) PublishLoginSucceeded(ctx context.Context, email, ip string, rememberMe bool) {
	if s.events == nil {
		return
	}

	err := s.events.PublishLoginSucceeded(ctx, domain.LoginSucceededEvent{
		Email:      email,
		RememberMe: rememberMe,
		IP:         ip,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish login event failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}
}

func (s *AuthService) publishLoggedOut(ctx context.Context, email string) {
	if s.events == nil {
		return
	}

	err := s.events.PublishLoggedOut(ctx, domain.LoggedOutEvent{
		Email:      email,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish logout event failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}
}
