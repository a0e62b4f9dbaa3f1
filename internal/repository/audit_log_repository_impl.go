package repository

import (
	"context"
	"errors"

	"account-service/internal/domain/entity"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) Find(ctx context.Context, q *query.Query) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	if err := applyQuery(r.db.WithContext(ctx), q).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := r.db.WithContext(ctx).First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *auditLogRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	var total int64
	err := applyFilters(r.db.WithContext(ctx).Model(&entity.AuditLog{}), q).Count(&total).Error
	return total, err
}
