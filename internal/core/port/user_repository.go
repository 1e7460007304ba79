package port

import (
	"context"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
)

// UserRepository exposes read access to the credential store. Registration and
// password management happen out of band, so there is no write surface here.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
