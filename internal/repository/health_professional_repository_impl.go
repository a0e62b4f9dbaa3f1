package repository

import (
	"context"

	"account-service/internal/domain/entity"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

type healthProfessionalRepository struct {
	table userTable[entity.HealthProfessional]
}

func NewHealthProfessionalRepository(db *gorm.DB) domainRepo.HealthProfessionalRepository {
	return &healthProfessionalRepository{
		table: userTable[entity.HealthProfessional]{db: db, userType: entity.UserTypeHealthProfessional},
	}
}

func (r *healthProfessionalRepository) Create(ctx context.Context, hp *entity.HealthProfessional) error {
	hp.Type = entity.UserTypeHealthProfessional
	return r.table.create(ctx, hp)
}

func (r *healthProfessionalRepository) Find(ctx context.Context, q *query.Query) ([]entity.HealthProfessional, error) {
	return r.table.find(ctx, q)
}

func (r *healthProfessionalRepository) FindOne(ctx context.Context, q *query.Query) (*entity.HealthProfessional, error) {
	return r.table.findOne(ctx, q)
}

func (r *healthProfessionalRepository) FindByIDs(ctx context.Context, ids []string, q *query.Query) ([]entity.HealthProfessional, error) {
	return r.table.findByIDs(ctx, ids, q)
}

func (r *healthProfessionalRepository) Update(ctx context.Context, hp *entity.HealthProfessional) error {
	return r.table.update(ctx, hp.ID, hp)
}

func (r *healthProfessionalRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return r.table.count(ctx, q)
}

func (r *healthProfessionalRepository) CountByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error) {
	return r.table.countByIDs(ctx, ids, q)
}

func (r *healthProfessionalRepository) CheckExists(ctx context.Context, id string) (bool, error) {
	return r.table.checkExists(ctx, id)
}

func (r *healthProfessionalRepository) CheckExistsMany(ctx context.Context, ids []string) (bool, error) {
	return r.table.checkExistsMany(ctx, ids)
}
