package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/observability"
)

var auditedEvents = []events.EventType{
	events.EventUserRegistered,
	events.EventLoginSucceeded,
	events.EventLoginFailed,
	events.EventLoginThrottled,
	events.EventUserStatusChanged,
	events.EventUserDeleted,
}

// AuditService records auth events in the log and in metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range auditedEvents {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.metrics.RecordAuthEvent(string(event.Type))

	fields := []zap.Field{
		zap.String("event", string(event.Type)),
		zap.String("identifier", event.Identifier),
		zap.Time("at", event.Timestamp),
	}
	if event.Actor != nil {
		fields = append(fields, zap.String("actor", event.Actor.Identifier))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}

	switch event.Type {
	case events.EventLoginFailed, events.EventLoginThrottled:
		a.logger.Warn("auth event", fields...)
	default:
		a.logger.Info("auth event", fields...)
	}
	return nil
}
