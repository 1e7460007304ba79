package domain

import "time"

// User mirrors the persisted representation in the users table. Accounts are
// provisioned out of band; this service only reads them for authentication.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// Identity is the decoded proof of authentication carried by a session token.
type Identity struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
