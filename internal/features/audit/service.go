package audit

import (
	"context"
	"time"

	"sourcevia/internal/common/models"
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuditService interface {
	Record(ctx context.Context, entry Log) error
	RecordTransition(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID, entityNumber string, from, to lifecycle.Status, comment string) error
	RecordChange(ctx context.Context, actor permissions.Actor, action Action, module permissions.Module, entityID, entityNumber string, changes map[string]models.Change) error
	ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Log, error)
}

type AuditServiceImpl struct {
	Repo   AuditRepository
	Logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func (s *AuditServiceImpl) Record(ctx context.Context, entry Log) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.ActorID == "" {
		entry.ActorID = "system"
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		// The trail is a first-class output; losing an entry is worth a
		// loud log even when the business operation itself succeeded.
		s.Logger.Error("audit entry not persisted",
			zap.String("action", string(entry.Action)),
			zap.String("module", string(entry.Module)),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *AuditServiceImpl) RecordTransition(ctx context.Context, actor permissions.Actor, module permissions.Module, entityID, entityNumber string, from, to lifecycle.Status, comment string) error {
	return s.Record(ctx, Log{
		Action:       ActionTransition,
		Module:       module,
		EntityID:     entityID,
		EntityNumber: entityNumber,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		FromStatus:   from,
		ToStatus:     to,
		Comment:      comment,
	})
}

func (s *AuditServiceImpl) RecordChange(ctx context.Context, actor permissions.Actor, action Action, module permissions.Module, entityID, entityNumber string, changes map[string]models.Change) error {
	return s.Record(ctx, Log{
		Action:       action,
		Module:       module,
		EntityID:     entityID,
		EntityNumber: entityNumber,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Changes:      changes,
	})
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Log, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}
