package repository

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/pkg/query"
)

type HealthProfessionalRepository interface {
	Create(ctx context.Context, hp *entity.HealthProfessional) error
	Find(ctx context.Context, q *query.Query) ([]entity.HealthProfessional, error)
	FindOne(ctx context.Context, q *query.Query) (*entity.HealthProfessional, error)
	FindByIDs(ctx context.Context, ids []string, q *query.Query) ([]entity.HealthProfessional, error)
	Update(ctx context.Context, hp *entity.HealthProfessional) error
	Count(ctx context.Context, q *query.Query) (int64, error)
	CountByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error)
	CheckExists(ctx context.Context, id string) (bool, error)
	CheckExistsMany(ctx context.Context, ids []string) (bool, error)
}
