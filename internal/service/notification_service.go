package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/config"
	"github.com/spec-kit/repair-service/internal/events"
)

// NotificationService writes the audit trail for domain events and forwards
// ticket updates to the configured webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     orNop(logger).Named("audit"),
		cfg:        cfg,
	}
}

// TicketEvents are forwarded to the webhook.
var TicketEvents = []events.EventType{events.EventTicketCreated, events.EventTicketStatusChanged}

// AuditEvents are written to the audit log.
var AuditEvents = []events.EventType{
	events.EventTicketCreated,
	events.EventTicketStatusChanged,
	events.EventUserAdded,
	events.EventUserRemoved,
	events.EventBadgeEnrolled,
	events.EventLogin,
}

// RegisterHandlers subscribes the audit log to every event. Webhook delivery
// is left to the caller, see Deliver.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, et := range AuditEvents {
		n.dispatcher.Subscribe(et, n.handleAuditEvent)
	}
}

// Deliver forwards a ticket event to the configured webhook.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAuditEvent(_ context.Context, event events.Event) error {
	n.logEvent(event)
	return nil
}

func (n *NotificationService) logEvent(event events.Event) {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
