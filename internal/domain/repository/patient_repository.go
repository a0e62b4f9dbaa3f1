package repository

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/pkg/query"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	Find(ctx context.Context, q *query.Query) ([]entity.Patient, error)
	FindOne(ctx context.Context, q *query.Query) (*entity.Patient, error)
	FindByIDs(ctx context.Context, ids []string, q *query.Query) ([]entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	Count(ctx context.Context, q *query.Query) (int64, error)
	CountByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error)
	CheckExists(ctx context.Context, id string) (bool, error)
	CheckExistsMany(ctx context.Context, ids []string) (bool, error)
}
