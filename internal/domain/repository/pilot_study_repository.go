package repository

import (
	"context"

	"account-service/internal/domain/entity"
	"account-service/pkg/query"
)

type PilotStudyRepository interface {
	Create(ctx context.Context, ps *entity.PilotStudy) error
	Find(ctx context.Context, q *query.Query) ([]entity.PilotStudy, error)
	FindOne(ctx context.Context, q *query.Query) (*entity.PilotStudy, error)
	Update(ctx context.Context, ps *entity.PilotStudy) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	CheckExists(ctx context.Context, id string) (bool, error)
	CheckExistsMany(ctx context.Context, ids []string) (bool, error)

	// Membership queries over the stored id arrays.
	FindByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) ([]entity.PilotStudy, error)
	CountByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) (int64, error)
	FindByPatient(ctx context.Context, patientID string, q *query.Query) ([]entity.PilotStudy, error)
	CountByPatient(ctx context.Context, patientID string, q *query.Query) (int64, error)
	CountPatientsByHealthProfessional(ctx context.Context, healthProfessionalID string) (int64, error)
	RemoveMember(ctx context.Context, userID string) error
}
