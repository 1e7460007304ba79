package domain

import "time"

// LoginSucceededEvent records a successful authentication for the audit trail.
type LoginSucceededEvent struct {
	Email      string
	RememberMe bool
	IP         string
	OccurredAt time.Time
}

// LoggedOutEvent records an explicit logout and the accompanying token revocation.
type LoggedOutEvent struct {
	Email      string
	OccurredAt time.Time
}
