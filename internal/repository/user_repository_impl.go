package repository

import (
	"context"
	"errors"
	"time"

	"account-service/internal/domain/entity"
	"account-service/internal/domain/exception"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

// Create is not available without a user type.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return exception.ErrUnsupportedOperation
}

func (r *userRepository) FindOne(ctx context.Context, q *query.Query) (*entity.User, error) {
	var user entity.User
	err := applyFilters(r.db.WithContext(ctx), q).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindOne(ctx, query.New().Where("email", email))
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
	return translateError(err, "")
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", at).Error
	return translateError(err, "")
}

func (r *userRepository) Delete(ctx context.Context, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", userID).Delete(&entity.User{})
	if result.Error != nil {
		return false, translateError(result.Error, "")
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	var total int64
	err := applyFilters(r.db.WithContext(ctx).Model(&entity.User{}), q).Count(&total).Error
	if err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

func (r *userRepository) CheckExists(ctx context.Context, userID string) (bool, error) {
	total, err := r.Count(ctx, query.ByID(userID))
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *userRepository) CheckExistsMany(ctx context.Context, userIDs []string) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id IN ?", userIDs).Pluck("id", &found).Error
	if err != nil {
		return false, translateError(err, "")
	}
	return domainRepo.ExistenceResult(userIDs, found)
}
