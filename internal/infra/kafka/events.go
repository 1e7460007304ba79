package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/config"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/infra/logger"
)

const schemaVersion = "1.0"

const (
	eventTypeLoginSucceeded = "shelving.auth.login_succeeded"
	eventTypeLoggedOut      = "shelving.auth.logged_out"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed audit event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Subject   string            `json:"subject,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(eventType, subject string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Subject:   subject,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	p.producer.Send(subject, value)
	return nil
}

// PublishLoginSucceeded emits a login audit event. Emails are masked before leaving the service.
func (p *EventPublisher) PublishLoginSucceeded(_ context.Context, event domain.LoginSucceededEvent) error {
	masked := logger.MaskEmail(event.Email)
	return p.publish(eventTypeLoginSucceeded, masked, event.OccurredAt, map[string]any{
		"email":       masked,
		"remember_me": event.RememberMe,
		"ip":          logger.MaskIP(event.IP),
	})
}

// PublishLoggedOut emits a logout audit event.
func (p *EventPublisher) PublishLoggedOut(_ context.Context, event domain.LoggedOutEvent) error {
	masked := logger.MaskEmail(event.Email)
	return p.publish(eventTypeLoggedOut, masked, event.OccurredAt, map[string]any{
		"email": masked,
	})
}

var _ port.EventPublisher = (*EventPublisher)(nil)
