package domain

import "time"

const (
	// SessionTokenTTL is the lifetime of a standard session token.
	SessionTokenTTL = time.Hour
	// ExtendedSessionTokenTTL is the lifetime of a "remember me" session token.
	ExtendedSessionTokenTTL = 7 * 24 * time.Hour
)

// SessionTokenTTLFor maps the remember-me flag to the corresponding token lifetime.
func SessionTokenTTLFor(rememberMe bool) time.Duration {
	if rememberMe {
		return ExtendedSessionTokenTTL
	}
	return SessionTokenTTL
}

// RevocationReason annotates why a token was revoked ahead of its natural expiry.
type RevocationReason string

const (
	// RevocationReasonLogout marks tokens invalidated by an explicit logout.
	RevocationReasonLogout RevocationReason = "user_logout"
)
