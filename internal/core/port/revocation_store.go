package port

import (
	"context"
	"time"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
)

// RevocationStore records tokens invalidated ahead of their natural expiry.
// Entries carry a TTL no longer than the remaining token lifetime, so the store
// garbage-collects itself and never outlives the tokens it guards.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, reason domain.RevocationReason, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, domain.RevocationReason, error)
}
