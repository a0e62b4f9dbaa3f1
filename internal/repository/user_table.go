package repository

import (
	"context"
	"errors"

	"account-service/internal/domain/entity"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

// userTable holds the queries shared by the typed views over the users table.
type userTable[T any] struct {
	db       *gorm.DB
	userType entity.UserType
}

func (t userTable[T]) scoped(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Model(new(T)).Where("type = ?", t.userType)
}

func (t userTable[T]) create(ctx context.Context, record *T) error {
	err := t.db.WithContext(ctx).Create(record).Error
	return translateError(err, "A registration with the same unique data already exists!")
}

func (t userTable[T]) find(ctx context.Context, q *query.Query) ([]T, error) {
	var records []T
	if err := applyQuery(t.scoped(ctx), q).Find(&records).Error; err != nil {
		return nil, translateError(err, "")
	}
	return records, nil
}

func (t userTable[T]) findOne(ctx context.Context, q *query.Query) (*T, error) {
	var record T
	err := applyFilters(t.scoped(ctx), q).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "")
	}
	return &record, nil
}

func (t userTable[T]) findByIDs(ctx context.Context, ids []string, q *query.Query) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var records []T
	err := applyQuery(t.scoped(ctx).Where("id IN ?", ids), q).Find(&records).Error
	if err != nil {
		return nil, translateError(err, "")
	}
	return records, nil
}

// update writes every column except the immutable ones and the password.
func (t userTable[T]) update(ctx context.Context, id string, record *T) error {
	err := t.db.WithContext(ctx).Model(record).
		Where("id = ? AND type = ?", id, t.userType).
		Select("*").
		Omit("id", "type", "password", "created_at", "last_login").
		Updates(record).Error
	return translateError(err, "A registration with the same unique data already exists!")
}

func (t userTable[T]) count(ctx context.Context, q *query.Query) (int64, error) {
	var total int64
	if err := applyFilters(t.scoped(ctx), q).Count(&total).Error; err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

// countByIDs counts the records among ids matching the filters of q.
func (t userTable[T]) countByIDs(ctx context.Context, ids []string, q *query.Query) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	if err := applyFilters(t.scoped(ctx).Where("id IN ?", ids), q).Count(&total).Error; err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

func (t userTable[T]) checkExists(ctx context.Context, id string) (bool, error) {
	total, err := t.count(ctx, query.ByID(id))
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (t userTable[T]) checkExistsMany(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	var found []string
	if err := t.scoped(ctx).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return false, translateError(err, "")
	}
	return domainRepo.ExistenceResult(ids, found)
}
