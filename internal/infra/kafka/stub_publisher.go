package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured, typically in development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, fields ...zap.Field) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	fields = append(fields,
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
	)
	p.logger.Info("stub event published", fields...)
}

// PublishLoginSucceeded logs login audit events.
func (p *StubPublisher) PublishLoginSucceeded(_ context.Context, event domain.LoginSucceededEvent) error {
	p.logEvent(eventTypeLoginSucceeded, event.OccurredAt,
		zap.String("email", logger.MaskEmail(event.Email)),
		zap.Bool("remember_me", event.RememberMe),
		zap.String("ip", logger.MaskIP(event.IP)),
	)
	return nil
}

// PublishLoggedOut logs logout audit events.
func (p *StubPublisher) PublishLoggedOut(_ context.Context, event domain.LoggedOutEvent) error {
	p.logEvent(eventTypeLoggedOut, event.OccurredAt,
		zap.String("email", logger.MaskEmail(event.Email)),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
