package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/security"
)

const defaultRevocationPrefix = "revoked"

// RevocationRepository records revoked session tokens in Redis. Keys are the
// SHA-256 of the raw token and carry a TTL capped at the token's remaining
// lifetime, so entries expire together with the tokens they guard.
type RevocationRepository struct {
	client *red.Client
	prefix string
}

// NewRevocationRepository wires a Redis client into a revocation repository.
func NewRevocationRepository(client *red.Client, keyPrefix string) *RevocationRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultRevocationPrefix
	}

	return &RevocationRepository{client: client, prefix: prefix}
}

// Revoke stores the token as revoked with the supplied reason and TTL.
// SET is atomic, so concurrent logouts racing on the same token converge to a
// single revoked entry.
func (r *RevocationRepository) Revoke(ctx context.Context, token string, reason domain.RevocationReason, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	key, err := r.key(token)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, string(reason), ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token has been revoked and returns the stored reason when present.
func (r *RevocationRepository) IsRevoked(ctx context.Context, token string) (bool, domain.RevocationReason, error) {
	key, err := r.key(token)
	if err != nil {
		return false, "", err
	}

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("redis get revoked token: %w", err)
	}

	return true, domain.RevocationReason(value), nil
}

func (r *RevocationRepository) key(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", errors.New("token must not be empty")
	}
	return fmt.Sprintf("%s:%s", r.prefix, security.HashToken(trimmed)), nil
}

var _ port.RevocationStore = (*RevocationRepository)(nil)
