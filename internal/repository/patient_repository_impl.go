package repository

import (
	"context"

	"account-service/internal/domain/entity"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

type patientRepository struct {
	table userTable[entity.Patient]
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{
		table: userTable[entity.Patient]{db: db, userType: entity.UserTypePatient},
	}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	patient.Type = entity.UserTypePatient
	return r.table.create(ctx, patient)
}

func (r *patientRepository) Find(ctx context.Context, q *query.Query) ([]entity.Patient, error) {
	return r.table.find(ctx, q)
}

func (r *patientRepository) FindOne(ctx context.Context, q *query.Query) (*entity.Patient, error) {
	return r.table.findOne(ctx, q)
}

func (r *patientRepository) FindByIDs(ctx context.Context, ids []string, q *query.Query) ([]entity.Patient, error) {
	return r.table.findByIDs(ctx, ids, q)
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return r.table.update(ctx, patient.ID, patient)
}

func (r *patientRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return r.table.count(ctx, q)
}

func (r *patientRepository) CountByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error) {
	return r.table.countByIDs(ctx, ids, q)
}

func (r *patientRepository) CheckExists(ctx context.Context, id string) (bool, error) {
	return r.table.checkExists(ctx, id)
}

func (r *patientRepository) CheckExistsMany(ctx context.Context, ids []string) (bool, error) {
	return r.table.checkExistsMany(ctx, ids)
}
