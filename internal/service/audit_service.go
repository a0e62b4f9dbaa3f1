package service

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type AuditService interface {
	LogCreate(ctx context.Context, actorID string, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, actorID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, actorID string, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, actorID string, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, actorID, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, actorID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, actorID, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, actorID string, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, actorID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, actorID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		Action: action,
		Metadata: datatypes.JSONMap{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}
	if actorID != "" {
		auditLog.UserID = &actorID
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
