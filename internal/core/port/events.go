package port

import (
	"context"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
)

// EventPublisher publishes audit events to the message bus.
type EventPublisher interface {
	PublishLoginSucceeded(ctx context.Context, event domain.LoginSucceededEvent) error
	PublishLoggedOut(ctx context.Context, event domain.LoggedOutEvent) error
}
