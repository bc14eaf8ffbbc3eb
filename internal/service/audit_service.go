package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
)

// AuditService records security-relevant domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	entries    repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, entries repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		entries:    entries,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.record)
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.record)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.record)
	a.dispatcher.Subscribe(events.EventRolesAssigned, a.record)
	a.dispatcher.Subscribe(events.EventRoleDeactivated, a.record)
	a.dispatcher.Subscribe(events.EventAvatarUpdated, a.record)
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	a.logger.Info("audit event",
		zap.String("type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.ActorID))

	entry := &domain.AuditEntry{
		EventID:   event.ID,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		SubjectID: event.SubjectID,
		CreatedAt: event.Timestamp,
	}
	if event.Payload != nil {
		entry.Detail = map[string]any{"payload": event.Payload}
	}

	if err := a.entries.Insert(ctx, entry); err != nil {
		a.logger.Error("failed to persist audit entry", zap.Error(err))
		return err
	}
	return nil
}
