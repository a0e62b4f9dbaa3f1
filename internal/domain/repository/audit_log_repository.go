package repository

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/pkg/query"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	Find(ctx context.Context, q *query.Query) ([]entity.AuditLog, error)
	FindByID(ctx context.Context, id int64) (*entity.AuditLog, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
}
