package repository

import (
	"context"
	"encoding/json"
	"errors"

	"account-service/internal/domain/entity"
	domainRepo "account-service/internal/domain/repository"
	"account-service/pkg/query"

	"gorm.io/gorm"
)

const pilotStudyConflict = "A pilot study with the same name already exists!"

type pilotStudyRepository struct {
	db *gorm.DB
}

func NewPilotStudyRepository(db *gorm.DB) domainRepo.PilotStudyRepository {
	return &pilotStudyRepository{db: db}
}

func (r *pilotStudyRepository) Create(ctx context.Context, ps *entity.PilotStudy) error {
	return translateError(r.db.WithContext(ctx).Create(ps).Error, pilotStudyConflict)
}

func (r *pilotStudyRepository) Find(ctx context.Context, q *query.Query) ([]entity.PilotStudy, error) {
	var studies []entity.PilotStudy
	if err := applyQuery(r.db.WithContext(ctx), q).Find(&studies).Error; err != nil {
		return nil, translateError(err, "")
	}
	return studies, nil
}

func (r *pilotStudyRepository) FindOne(ctx context.Context, q *query.Query) (*entity.PilotStudy, error) {
	var ps entity.PilotStudy
	err := applyFilters(r.db.WithContext(ctx), q).First(&ps).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, "")
	}
	return &ps, nil
}

// Update persists every column, membership arrays included.
func (r *pilotStudyRepository) Update(ctx context.Context, ps *entity.PilotStudy) error {
	err := r.db.WithContext(ctx).Model(ps).
		Select("*").
		Omit("id", "created_at").
		Updates(ps).Error
	return translateError(err, pilotStudyConflict)
}

func (r *pilotStudyRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PilotStudy{})
	if result.Error != nil {
		return false, translateError(result.Error, "")
	}
	return result.RowsAffected > 0, nil
}

func (r *pilotStudyRepository) Count(ctx context.Context, q *query.Query) (int64, error) {
	var total int64
	err := applyFilters(r.db.WithContext(ctx).Model(&entity.PilotStudy{}), q).Count(&total).Error
	if err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

func (r *pilotStudyRepository) CheckExists(ctx context.Context, id string) (bool, error) {
	total, err := r.Count(ctx, query.ByID(id))
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *pilotStudyRepository) CheckExistsMany(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&entity.PilotStudy{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return false, translateError(err, "")
	}
	return domainRepo.ExistenceResult(ids, found)
}

func (r *pilotStudyRepository) FindByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) ([]entity.PilotStudy, error) {
	return r.findByMember(ctx, "health_professionals", healthProfessionalID, q)
}

func (r *pilotStudyRepository) CountByHealthProfessional(ctx context.Context, healthProfessionalID string, q *query.Query) (int64, error) {
	return r.countByMember(ctx, "health_professionals", healthProfessionalID, q)
}

func (r *pilotStudyRepository) FindByPatient(ctx context.Context, patientID string, q *query.Query) ([]entity.PilotStudy, error) {
	return r.findByMember(ctx, "patients", patientID, q)
}

func (r *pilotStudyRepository) CountByPatient(ctx context.Context, patientID string, q *query.Query) (int64, error) {
	return r.countByMember(ctx, "patients", patientID, q)
}

// CountPatientsByHealthProfessional counts distinct patients across every pilot
// study the professional takes part in.
func (r *pilotStudyRepository) CountPatientsByHealthProfessional(ctx context.Context, healthProfessionalID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(DISTINCT patient_id) FROM pilot_studies, jsonb_array_elements_text(patients) AS patient_id
			WHERE health_professionals @> ?::jsonb`, memberFilter(healthProfessionalID)).
		Scan(&total).Error
	if err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

// RemoveMember strips a deleted user from every membership array.
func (r *pilotStudyRepository) RemoveMember(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Model(&entity.PilotStudy{}).
		Where("health_professionals @> ?::jsonb OR patients @> ?::jsonb", memberFilter(userID), memberFilter(userID)).
		UpdateColumns(map[string]any{
			"health_professionals": gorm.Expr("health_professionals - ?::text", userID),
			"patients":             gorm.Expr("patients - ?::text", userID),
		}).Error
	return translateError(err, "")
}

func (r *pilotStudyRepository) findByMember(ctx context.Context, column, userID string, q *query.Query) ([]entity.PilotStudy, error) {
	var studies []entity.PilotStudy
	db := r.db.WithContext(ctx).Where(column+" @> ?::jsonb", memberFilter(userID))
	if err := applyQuery(db, q).Find(&studies).Error; err != nil {
		return nil, translateError(err, "")
	}
	return studies, nil
}

func (r *pilotStudyRepository) countByMember(ctx context.Context, column, userID string, q *query.Query) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).Model(&entity.PilotStudy{}).Where(column+" @> ?::jsonb", memberFilter(userID))
	err := applyFilters(db, q).Count(&total).Error
	if err != nil {
		return 0, translateError(err, "")
	}
	return total, nil
}

// memberFilter renders the jsonb containment operand for one id.
func memberFilter(id string) string {
	raw, _ := json.Marshal([]string{id})
	return string(raw)
}
