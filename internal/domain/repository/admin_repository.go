package repository

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/pkg/query"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	Find(ctx context.Context, q *query.Query) ([]entity.Admin, error)
	FindOne(ctx context.Context, q *query.Query) (*entity.Admin, error)
	Update(ctx context.Context, admin *entity.Admin) error
	Count(ctx context.Context, q *query.Query) (int64, error)
}
