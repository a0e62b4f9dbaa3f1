package repository

import (
	"context"

	"account-service/internal/domain/entity"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

type adminRepository struct {
	table userTable[entity.Admin]
}

func NewAdminRepository(db *gorm.DB) domainRepo.AdminRepository {
	return &adminRepository{
		table: userTable[entity.Admin]{db: db, userType: entity.UserTypeAdmin},
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	admin.Type = entity.UserTypeAdmin
	return r.table.create(ctx, admin)
}

func (r *adminRepository) Find(ctx context.Context, q *query.Query) ([]entity.Admin, error) {
	return r.table.find(ctx, q)
}

func (r *adminRepository) FindOne(ctx context.Context, q *query.Query) (*entity.Admin, error) {
	return r.table.findOne(ctx, q)
}

func (r *adminRepository) Update(ctx context.Context, admin *entity.Admin) error {
	return r.table.update(ctx, admin.ID, admin)
}

func (r *adminRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	return r.table.count(ctx, q)
}
