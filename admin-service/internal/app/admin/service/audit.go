package service

import (
	"context"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/repository"
	"brocante/pkg/logger"
)

type contextKey string

const actorContextKey contextKey = "actor"

// WithActor кладет идентификатор администратора в контекст запроса.
// Вызывается из auth middleware после проверки JWT.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

func actorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorContextKey).(string); ok && actor != "" {
		return actor
	}
	return "unknown"
}

// recordAudit пишет запись журнала действий.
// Ошибки журнала не прерывают мутацию: запись уже зафиксирована в БД.
func recordAudit(ctx context.Context, auditRepo repository.AuditRepository, action, entityType, entityID string) {
	entry := &entity.AuditEntry{
		Actor:      actorFromContext(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  time.Now(),
	}

	if err := auditRepo.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Msg("failed to record audit entry")
	}
}
