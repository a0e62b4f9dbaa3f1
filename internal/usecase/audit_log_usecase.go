package usecase

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/repository"
	"account-service/pkg/query"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	GetAll(ctx context.Context, q *query.Query) ([]entity.AuditLog, error)
	GetByID(ctx context.Context, id int64) (*entity.AuditLog, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAll(ctx context.Context, q *query.Query) ([]entity.AuditLog, error) {
	logs, err := u.auditLogRepo.Find(ctx, q)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}
	return logs, nil
}

// GetByID returns nil when the entry does not exist.
func (u *auditLogUsecase) GetByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	return auditLog, nil
}

func (u *auditLogUsecase) Count(ctx context.Context, q *query.Query) (int64, error) {
	return u.auditLogRepo.Count(ctx, q)
}
